package shell

// ANSI color codes for consistent styling across the menu output
const (
	Reset = "\033[0m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
	Gray   = "\033[90m"

	Bold = "\033[1m"
	Dim  = "\033[2m"
)

// Predefined color combinations
var (
	HeaderStyle  = Cyan + Bold
	SuccessStyle = Green + Bold
	ErrorStyle   = Red + Bold
	WarningStyle = Yellow + Bold
	InfoStyle    = Blue + Bold
	LabelStyle   = Cyan
	ValueStyle   = White + Bold
	DimStyle     = Dim
	MetaStyle    = Gray
)

// styler wraps text in a style unless color output is disabled
type styler struct {
	enabled bool
}

func (s styler) apply(style, text string) string {
	if !s.enabled {
		return text
	}
	return style + text + Reset
}

func (s styler) header(text string) string  { return s.apply(HeaderStyle, text) }
func (s styler) success(text string) string { return s.apply(SuccessStyle, text) }
func (s styler) err(text string) string     { return s.apply(ErrorStyle, text) }
func (s styler) warning(text string) string { return s.apply(WarningStyle, text) }
func (s styler) info(text string) string    { return s.apply(InfoStyle, text) }
func (s styler) label(text string) string   { return s.apply(LabelStyle, text) }
func (s styler) value(text string) string   { return s.apply(ValueStyle, text) }
func (s styler) dim(text string) string     { return s.apply(DimStyle, text) }
func (s styler) meta(text string) string    { return s.apply(MetaStyle, text) }

// labelValue formats a label-value pair
func (s styler) labelValue(label, value string) string {
	return s.label(label) + " " + s.value(value)
}
