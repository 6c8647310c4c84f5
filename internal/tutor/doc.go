// Package tutor talks to the Gemini API on behalf of the math tutor.
//
// Requests go through a chain of models. When a model is rate limited,
// overloaded or otherwise fails before producing output, the next model in
// the chain is tried; an invalid API key stops the chain at once. Errors are
// wrapped over the sentinels in this package, and UserMessage turns them
// into the Vietnamese text shown to students and teachers.
package tutor
