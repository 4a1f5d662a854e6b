package mdpdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/cobalt-rocks/mdpdf/internal/fileutil"
	"github.com/cobalt-rocks/mdpdf/internal/hints"
	"github.com/cobalt-rocks/mdpdf/internal/pipeline"
	"github.com/cobalt-rocks/mdpdf/internal/process"
)

// pdfConverter prints a complete HTML document.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer prints an HTML file; the seam tests replace to run without
// a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

type pdfOptions struct {
	Footer string        // rendered footer HTML; empty prints no footer
	Page   *PageSettings // nil means DefaultPageSettings()
}

// paperSizes maps page sizes to portrait width and height in millimeters.
var paperSizes = map[string][2]float64{
	PageSizeA3: {297, 420},
	PageSizeA4: {210, 297},
	PageSizeA5: {148, 210},
	PageSizeA6: {105, 148},
}

const (
	mmPerInch = 25.4

	// minFooterMarginMM leaves room for the footer line below the content.
	minFooterMarginMM = 15.0
)

// mmToInches converts millimeters to inches, the unit Chrome expects.
func mmToInches(mm float64) float64 {
	return mm / mmPerInch
}

// paperDimensions returns the paper width and height in inches.
// Unknown sizes fall back to A4; landscape swaps the sides.
func paperDimensions(page *PageSettings) (width, height float64) {
	dims, ok := paperSizes[strings.ToLower(page.Size)]
	if !ok {
		dims = paperSizes[PageSizeA4]
	}
	width, height = mmToInches(dims[0]), mmToInches(dims[1])
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// rodRenderer prints local HTML files with a headless Chrome driven by rod.
// The browser starts on first use; rod downloads Chromium when none is
// installed and ROD_BROWSER_BIN is unset.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	getenv   func(string) string
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout, getenv: os.Getenv}
}

// browserSettings is what the environment decides about the launch.
type browserSettings struct {
	bin       string
	noSandbox bool
}

// browserSettingsFrom reads ROD_BROWSER_BIN and ROD_NO_SANDBOX. The sandbox
// is also dropped for a preinstalled browser and inside CI or containers,
// where Chrome's sandbox usually cannot start.
func browserSettingsFrom(getenv func(string) string) browserSettings {
	s := browserSettings{bin: getenv("ROD_BROWSER_BIN")}
	container, _ := hints.InContainer(getenv)
	s.noSandbox = getenv("ROD_NO_SANDBOX") == "1" || s.bin != "" || container || hints.InCI(getenv)
	return s
}

func (r *rodRenderer) connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return nil
	}

	settings := browserSettingsFrom(r.getenv)
	l := launcher.New().NoSandbox(settings.noSandbox)
	if settings.bin != "" {
		l = l.Bin(settings.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser, r.launcher = browser, l
	return nil
}

// Close shuts the browser down and kills what is left of its process tree.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		_ = process.KillTree(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// loadTimeout is the time left before ctx expires, or fallback without a
// deadline. ok is false once the deadline has passed.
func loadTimeout(ctx context.Context, fallback time.Duration) (d time.Duration, ok bool) {
	deadline, has := ctx.Deadline()
	if !has {
		return fallback, true
	}
	d = time.Until(deadline)
	return d, d > 0
}

// RenderFromFile loads filePath in a new tab and prints it. A cancelled
// ctx wins over the load error it causes.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.connect(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: pipeline.FileURL(filePath)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout, ok := loadTimeout(ctx, r.timeout)
	if !ok {
		return nil, context.DeadlineExceeded
	}
	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	stream, err := page.Context(ctx).PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions maps page settings to Chrome's print parameters. With a
// footer the bottom margin grows to at least minFooterMarginMM and the
// header is blanked, since Chrome prints a default one otherwise.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	var footer string
	page := DefaultPageSettings()
	if opts != nil {
		footer = opts.Footer
		if opts.Page != nil {
			page = opts.Page
		}
	}

	width, height := paperDimensions(page)
	side := mmToInches(page.Margin)
	bottom := side

	params := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(side),
		MarginLeft:      floatPtr(side),
		MarginRight:     floatPtr(side),
		PrintBackground: true,
	}
	if footer != "" {
		bottom = mmToInches(max(page.Margin, minFooterMarginMM))
		params.DisplayHeaderFooter = true
		params.HeaderTemplate = "<span></span>"
		params.FooterTemplate = footer
	}
	params.MarginBottom = floatPtr(bottom)
	return params
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter stages the document in a temp file, so relative file://
// images resolve, and hands it to the renderer.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	path, remove, err := fileutil.TempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer remove()

	return c.renderer.RenderFromFile(ctx, path, opts)
}

func (c *rodConverter) Close() error {
	if c.renderer == nil {
		return nil
	}
	return c.renderer.Close()
}
