package contract

import (
	"fmt"
	"os"
	"strconv"

	"github.com/avendano/churnscope/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // standard danger
	HighColor     = color.New(color.FgMagenta, color.Bold) // strong, distinct warning
	MediumColor   = color.New(color.FgYellow)               // standard caution, not bold
	LowColor      = color.New(color.FgCyan)                 // informational signal
)

// GetPlainBandLabel returns the plain text label for a risk band. This is
// the core logic used for CSV, JSON and table printing.
func GetPlainBandLabel(band schema.RiskBand) string {
	return schema.BandLabels[band]
}

// GetColorBandLabel returns a colored band label for console tables.
func GetColorBandLabel(band schema.RiskBand) string {
	text := GetPlainBandLabel(band)
	switch band {
	case schema.CriticalBand:
		return CriticalColor.Sprint(text)
	case schema.HighBand:
		return HighColor.Sprint(text)
	case schema.MediumBand:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// FormatROI renders a nullable ROI ratio as a percentage, or "n/a" when the
// intervention cost was zero.
func FormatROI(roi *float64, precision int) string {
	if roi == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*roi*100, 'f', precision, 64) + "%"
}

// FormatMoney renders a dollar amount at the configured precision.
func FormatMoney(v float64, precision int) string {
	return "$" + strconv.FormatFloat(v, 'f', precision, 64)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncateID truncates a customer ID to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is space for both the "..." prefix and at
// least one character of content.
func TruncateID(id string, maxWidth int) string {
	runes := []rune(id)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return id
}

// LogWarn prints a non-fatal warning to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}
