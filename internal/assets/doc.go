// Package assets provides the themes and HTML templates used to assemble
// documents and print them to PDF.
//
// A Loader reads one asset root: NewEmbeddedLoader serves the built-in
// themes (light, lime, night) and the default template set, and
// NewFilesystemLoader serves a directory on disk. AssetResolver layers a
// custom directory over the embedded assets, so a single theme or template
// set can be overridden while the rest keep their defaults.
//
// Both roots share one layout:
//
//	{root}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── document.html    # standalone document around the body
//	        └── footer.html      # footer printed on every page
//
// Asset names are limited to letters, digits, '-' and '_', and files that
// resolve outside a filesystem root through symlinks are refused with
// ErrPathTraversal.
package assets
