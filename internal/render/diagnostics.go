package render

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Severity is a driver message severity. Values are bit flags so a set of
// severities can be subscribed to at once.
type Severity uint32

const (
	SeverityVerbose Severity = 1 << iota
	SeverityInfo
	SeverityWarning
	SeverityError

	AllSeverities = SeverityVerbose | SeverityInfo | SeverityWarning | SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return joinFlags(uint32(s), []string{"verbose", "info", "warning", "error"})
}

// Category is a driver message category, also a bit flag.
type Category uint32

const (
	CategoryGeneral Category = 1 << iota
	CategoryValidation
	CategoryPerformance

	AllCategories = CategoryGeneral | CategoryValidation | CategoryPerformance
)

func (c Category) String() string {
	return joinFlags(uint32(c), []string{"general", "validation", "performance"})
}

func joinFlags(bits uint32, names []string) string {
	var set []string
	for i, name := range names {
		if bits&(1<<uint(i)) != 0 {
			set = append(set, name)
		}
	}
	if len(set) == 0 {
		return "none"
	}
	return strings.Join(set, "|")
}

// Message is one driver diagnostic.
type Message struct {
	Severity Severity
	Category Category
	Text     string
}

// MessengerInfo subscribes Callback to the listed severities and
// categories. The driver invokes Callback synchronously on the thread
// that made the offending call; it must not call back into the driver.
type MessengerInfo struct {
	Severities Severity
	Categories Category
	Callback   func(Message)
}

// LevelFor maps a driver severity onto a log level. Anything that is not
// exactly one known severity is logged as a warning.
func LevelFor(severity Severity) logrus.Level {
	switch severity {
	case SeverityVerbose:
		return logrus.DebugLevel
	case SeverityInfo:
		return logrus.InfoLevel
	case SeverityWarning:
		return logrus.WarnLevel
	case SeverityError:
		return logrus.ErrorLevel
	}
	return logrus.WarnLevel
}

// ForwardTo returns a messenger subscription that formats every message
// onto sink. The callback only logs.
func ForwardTo(sink logrus.FieldLogger, severities Severity, categories Category) MessengerInfo {
	return MessengerInfo{
		Severities: severities,
		Categories: categories,
		Callback: func(msg Message) {
			sink.WithFields(logrus.Fields{
				"source":   "driver",
				"category": msg.Category.String(),
			}).Log(LevelFor(msg.Severity), msg.Text)
		},
	}
}

// Diagnostics is an attached debug messenger.
type Diagnostics struct {
	messenger Messenger
}

// AttachDiagnostics registers one messenger on conn that routes driver
// messages of the given severities and categories to sink.
func AttachDiagnostics(conn *Connection, severities Severity, categories Category, sink logrus.FieldLogger) (*Diagnostics, error) {
	messenger, err := conn.instance.CreateMessenger(ForwardTo(sink, severities, categories))
	if err != nil {
		return nil, Fail(ErrLayerOrExtensionUnsupported, "create debug messenger", err)
	}
	return &Diagnostics{messenger: messenger}, nil
}

func (d *Diagnostics) Destroy() {
	if d == nil || d.messenger == nil {
		return
	}
	d.messenger.Destroy()
	d.messenger = nil
}
