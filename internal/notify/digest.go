package notify

import (
	"fmt"
	"strings"

	"github.com/jonathan/study-scout/internal/db"
)

// MaxStudiesPerDigest caps how many studies one message lists in full.
// The header always carries the true count.
const MaxStudiesPerDigest = 10

// RenderDigest builds the subject and plain-text body for a batch of newly
// discovered studies.
func RenderDigest(studies []db.Study) (subject, body string) {
	total := len(studies)
	if total == 1 {
		subject = "1 new paid study found"
	} else {
		subject = fmt.Sprintf("%d new paid studies found", total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Study Scout found %d new stud%s:\n\n", total, pluralY(total))

	listed := studies
	if len(listed) > MaxStudiesPerDigest {
		listed = listed[:MaxStudiesPerDigest]
	}

	for i, s := range listed {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Title)
		fmt.Fprintf(&b, "   $%d", s.Payout)
		fmt.Fprintf(&b, " | %s", s.Duration)
		fmt.Fprintf(&b, " | %s", s.StudyType)
		if s.FormatTag != "" {
			fmt.Fprintf(&b, " | %s", s.FormatTag)
		}
		b.WriteString("\n")
		if s.PostedText != "" {
			fmt.Fprintf(&b, "   Posted %s\n", s.PostedText)
		}
		if s.Link != "" {
			fmt.Fprintf(&b, "   %s\n", s.Link)
		}
		b.WriteString("\n")
	}

	if total > MaxStudiesPerDigest {
		fmt.Fprintf(&b, "...and %d more.\n", total-MaxStudiesPerDigest)
	}

	return subject, b.String()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
