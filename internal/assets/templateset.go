package assets

// TemplateSet holds the HTML templates for document generation.
// A template set contains the document and footer templates that work together.
type TemplateSet struct {
	Name     string // Identifier (name or directory path)
	Document string // Standalone document template HTML content
	Footer   string // Page footer template HTML content
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "light"

// Template file names inside a template set directory.
const (
	documentTemplateFile = "document.html"
	footerTemplateFile   = "footer.html"
)
