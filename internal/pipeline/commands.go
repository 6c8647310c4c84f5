package pipeline

import "sort"

// recognizedCommands lists the LaTeX command names that mark the start of a
// math expression in free text. A name outside this set is left untouched,
// so prose such as \footnote or \newline never triggers wrapping.
var recognizedCommands = map[string]struct{}{
	// Functions
	"sin": {}, "cos": {}, "tan": {}, "cot": {}, "sec": {}, "csc": {},
	"arcsin": {}, "arccos": {}, "arctan": {}, "sinh": {}, "cosh": {}, "tanh": {},
	"coth": {}, "log": {}, "ln": {}, "lg": {}, "exp": {}, "lim": {}, "limsup": {},
	"liminf": {}, "max": {}, "min": {}, "sup": {}, "inf": {}, "det": {}, "gcd": {},
	"deg": {}, "arg": {}, "dim": {}, "ker": {}, "Pr": {}, "mod": {}, "bmod": {},
	"pmod": {},

	// Greek letters
	"alpha": {}, "beta": {}, "gamma": {}, "delta": {}, "epsilon": {},
	"varepsilon": {}, "zeta": {}, "eta": {}, "theta": {}, "vartheta": {},
	"iota": {}, "kappa": {}, "lambda": {}, "mu": {}, "nu": {}, "xi": {},
	"pi": {}, "varpi": {}, "rho": {}, "varrho": {}, "sigma": {}, "varsigma": {},
	"tau": {}, "upsilon": {}, "phi": {}, "varphi": {}, "chi": {}, "psi": {},
	"omega": {},
	"Gamma": {}, "Delta": {}, "Theta": {}, "Lambda": {}, "Xi": {}, "Pi": {},
	"Sigma": {}, "Upsilon": {}, "Phi": {}, "Psi": {}, "Omega": {},

	// Fractions, roots, big operators
	"frac": {}, "dfrac": {}, "tfrac": {}, "cfrac": {}, "sqrt": {}, "binom": {},
	"dbinom": {}, "tbinom": {}, "sum": {}, "prod": {}, "coprod": {}, "int": {},
	"iint": {}, "iiint": {}, "oint": {}, "bigcup": {}, "bigcap": {},
	"partial": {}, "nabla": {}, "infty": {},

	// Binary operators
	"cdot": {}, "times": {}, "div": {}, "pm": {}, "mp": {}, "ast": {},
	"star": {}, "circ": {}, "bullet": {}, "oplus": {}, "otimes": {},
	"setminus": {}, "wedge": {}, "vee": {},

	// Relations
	"leq": {}, "geq": {}, "le": {}, "ge": {}, "neq": {}, "ne": {}, "approx": {},
	"equiv": {}, "sim": {}, "simeq": {}, "cong": {}, "propto": {}, "ll": {},
	"gg": {}, "mid": {}, "nmid": {}, "perp": {}, "parallel": {}, "leqslant": {},
	"geqslant": {},

	// Arrows
	"to": {}, "gets": {}, "rightarrow": {}, "leftarrow": {},
	"leftrightarrow": {}, "Rightarrow": {}, "Leftarrow": {},
	"Leftrightarrow": {}, "longrightarrow": {}, "longleftarrow": {},
	"Longrightarrow": {}, "Longleftarrow": {}, "Longleftrightarrow": {},
	"iff": {}, "implies": {}, "mapsto": {}, "uparrow": {}, "downarrow": {},

	// Sets and logic
	"in": {}, "notin": {}, "ni": {}, "subset": {}, "supset": {}, "subseteq": {},
	"supseteq": {}, "cup": {}, "cap": {}, "emptyset": {}, "varnothing": {},
	"forall": {}, "exists": {}, "nexists": {}, "neg": {}, "lnot": {}, "land": {},
	"lor": {},

	// Accents and fonts
	"overline": {}, "underline": {}, "overrightarrow": {}, "widehat": {},
	"widetilde": {}, "vec": {}, "hat": {}, "bar": {}, "tilde": {}, "dot": {},
	"ddot": {}, "mathbb": {}, "mathbf": {}, "mathrm": {}, "mathit": {},
	"mathcal": {}, "boldsymbol": {}, "text": {}, "operatorname": {},

	// Delimiters and spacing
	"left": {}, "right": {}, "big": {}, "Big": {}, "langle": {}, "rangle": {},
	"lfloor": {}, "rfloor": {}, "lceil": {}, "rceil": {}, "quad": {},
	"qquad": {}, "displaystyle": {},

	// Geometry and misc
	"angle": {}, "triangle": {}, "square": {},
	"ldots": {}, "cdots": {}, "vdots": {}, "ddots": {}, "dots": {}, "prime": {},
	"overset": {}, "underset": {}, "stackrel": {},
}

// IsRecognizedCommand reports whether name (without the leading backslash)
// starts a math expression.
func IsRecognizedCommand(name string) bool {
	_, ok := recognizedCommands[name]
	return ok
}

// RecognizedCommands returns the recognized command names in sorted order.
func RecognizedCommands() []string {
	names := make([]string, 0, len(recognizedCommands))
	for name := range recognizedCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
