// Package assets holds the page stylesheet, the lesson-plan template and
// the system prompts sent to the model.
//
// Everything ships embedded in the binary. A directory passed with
// --asset-path (or assets.basePath in the config file) can replace any
// single file:
//
//	{dir}/styles/default.css
//	{dir}/templates/lessonplan.html
//	{dir}/prompts/tutor.md
//	{dir}/prompts/lessonplan.md
//
// AssetResolver looks in that directory first and falls back to the
// embedded copy only when the file is absent there. Names are restricted to
// [A-Za-z0-9_-] and files reached through symlinks must stay inside the
// directory.
package assets
