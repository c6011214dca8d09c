package features

// DefaultTimeKeywords are the temporal marker words searched in email bodies.
// The dataset was collected from Hebrew and English mailboxes, so both are listed.
var DefaultTimeKeywords = []string{
	// English
	"today",
	"tomorrow",
	"tonight",
	"at",
	"o'clock",
	"schedule",
	"scheduled",
	"meeting time",
	"urgent",
	"deadline",
	"until",
	// Hebrew
	"בשעה",
	"ב-",
	"מ-",
	"עד",
	"ביום",
	"תאריך",
	"זמן",
	"פגישה",
	"ישיבה",
	"אירוע",
}

// DefaultMonthNames are matched after a day number, e.g. "15 March" or "15 מרץ"
var DefaultMonthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

// Vocabulary configures the extractor's closed word lists
type Vocabulary struct {
	TimeKeywords []string
	MonthNames   []string
}

// DefaultVocabulary returns a copy of the built-in word lists
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		TimeKeywords: append([]string(nil), DefaultTimeKeywords...),
		MonthNames:   append([]string(nil), DefaultMonthNames...),
	}
}
