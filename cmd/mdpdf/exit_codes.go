package main

import (
	"errors"
	"os"

	"github.com/cobalt-rocks/mdpdf"
	"github.com/cobalt-rocks/mdpdf/internal/config"
	"github.com/cobalt-rocks/mdpdf/internal/dateutil"
)

// Process exit codes. Values stay below 126, which shells reserve.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2 // bad flags, config or input
	ExitIO      = 3 // unreadable input, unwritable output
	ExitBrowser = 4
)

// exitClasses is checked in order; the first class with a matching sentinel
// wins. Browser failures come first because they may wrap I/O errors.
var exitClasses = []struct {
	code      int
	sentinels []error
}{
	{ExitBrowser, []error{
		mdpdf.ErrBrowserConnect,
		mdpdf.ErrPageCreate,
		mdpdf.ErrPageLoad,
		mdpdf.ErrPDFGeneration,
	}},
	{ExitIO, []error{
		os.ErrNotExist,
		os.ErrPermission,
		ErrReadMarkdown,
		ErrWriteOutput,
		ErrNoMarkdownFiles,
	}},
	{ExitUsage, []error{
		ErrUsage,
		ErrInvalidWorkerCount,
		ErrInvalidTimeout,
		ErrDateRequiresName,
		ErrUnsupportedShell,
		dateutil.ErrInvalidDateFormat,
		config.ErrConfigNotFound,
		config.ErrConfigParse,
		config.ErrFieldTooLong,
		config.ErrInvalidValue,
		mdpdf.ErrEmptyMarkdown,
		mdpdf.ErrInvalidPageSize,
		mdpdf.ErrInvalidOrientation,
		mdpdf.ErrInvalidMargin,
		mdpdf.ErrInvalidLicense,
		mdpdf.ErrLicenseRequiresName,
		mdpdf.ErrInvalidLang,
		mdpdf.ErrUnknownExtension,
		mdpdf.ErrInvalidPolicy,
		mdpdf.ErrUnknownHighlightStyle,
		mdpdf.ErrStyleNotFound,
		mdpdf.ErrTemplateSetNotFound,
		mdpdf.ErrIncompleteTemplateSet,
		mdpdf.ErrInvalidAssetPath,
	}},
}

// exitCodeFor maps err to a process exit code. Errors must be wrapped with
// %w for the sentinels to be found.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	for _, class := range exitClasses {
		for _, sentinel := range class.sentinels {
			if errors.Is(err, sentinel) {
				return class.code
			}
		}
	}
	return ExitGeneral
}
