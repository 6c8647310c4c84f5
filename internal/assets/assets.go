package assets

// Names of the built-in assets.
const (
	DefaultStyleName       = "default"
	LessonPlanTemplateName = "lessonplan"
	TutorPromptName        = "tutor"
	LessonPlanPromptName   = "lessonplan"
)

// LoadStyle returns an embedded stylesheet. Use an AssetResolver to honour
// a custom asset directory.
func LoadStyle(name string) (string, error) { return readBuiltin(styleKind, name) }

// LoadTemplate returns an embedded html/template source.
func LoadTemplate(name string) (string, error) { return readBuiltin(templateKind, name) }

// LoadPrompt returns an embedded system prompt.
func LoadPrompt(name string) (string, error) { return readBuiltin(promptKind, name) }
