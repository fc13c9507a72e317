package runner

import (
	"time"

	"github.com/semmy-space/walletrunner/internal/wallet"
)

// MatchKind identifies what selecting a match will do.
type MatchKind int

const (
	// KindEntry opens or copies an existing wallet entry
	KindEntry MatchKind = iota
	// KindAdd proposes creating a new entry in the default folder
	KindAdd
	// KindEdit proposes editing an existing entry in the default folder
	KindEdit
)

// Relevance tells the host how to rank a match against other runners.
type Relevance int

const (
	// RelevanceExact marks search hits. All hits share the same priority.
	RelevanceExact Relevance = iota
	// RelevanceHelper marks add/edit helper matches.
	RelevanceHelper
)

// Match is one candidate produced for a query. Matches are built fresh
// for every query and never cached.
type Match struct {
	Kind      MatchKind `json:"-"`
	Relevance Relevance `json:"-"`
	Text      string    `json:"text"`
	Subtext   string    `json:"subtext"`
	Icon      string    `json:"icon"`

	// Entry and Folder locate the entry for KindEntry matches.
	Entry  string `json:"entry,omitempty"`
	Folder string `json:"folder"`

	// Seed is the entry name handed to the editor for KindAdd/KindEdit.
	Seed string `json:"seed,omitempty"`
}

// ActionID returns the identifier the host uses to dispatch the match.
func (m Match) ActionID() string {
	switch m.Kind {
	case KindAdd:
		return "add"
	case KindEdit:
		return "edit"
	default:
		return "open"
	}
}

// Action is a secondary action the host can offer next to a match.
type Action struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// ActionOverview reveals every field of an entry instead of copying.
const ActionOverview = "overview"

var overviewAction = Action{ID: ActionOverview, Text: "Show Overview", Icon: "documentinfo"}

// Syntax documents one accepted query form.
type Syntax struct {
	Example     string `json:"example"`
	Description string `json:"description"`
}

// ResultKind identifies what the host must do after executing a match.
type ResultKind int

const (
	// ResultCopied means a value was copied and a clear is scheduled.
	// Nothing else needs to be presented.
	ResultCopied ResultKind = iota
	// ResultReveal asks the host to present the entry viewer.
	ResultReveal
	// ResultEditor asks the host to present the entry editor.
	ResultEditor
)

// Field is one named value shown by the entry viewer.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EntryView holds everything the entry viewer displays.
type EntryView struct {
	Folder string           `json:"folder"`
	Entry  string           `json:"entry"`
	Type   wallet.EntryType `json:"-"`
	Fields []Field          `json:"fields"`
}

// Result is the outcome of executing a match.
type Result struct {
	Kind ResultKind

	// ClearAfter is the auto-clear delay for ResultCopied.
	ClearAfter time.Duration

	// View is set for ResultReveal.
	View *EntryView

	// Seed and Existing are set for ResultEditor.
	Seed     string
	Existing bool
}
