// Package notify delivers new-study digests to the recipient set.
// Fan-out is best effort: one recipient failing must not undo or block
// delivery to the others, and nothing is retried within a run.
package notify

import (
	"context"
	"log"

	"github.com/jonathan/study-scout/internal/db"
)

// Transport is the pluggable delivery mechanism (SMTP in production,
// a fake in tests, a chat webhook if one ever grows here).
type Transport interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier renders digests and fans them out over a Transport
type Notifier struct {
	transport Transport
}

// New constructs a Notifier
func New(transport Transport) *Notifier {
	return &Notifier{transport: transport}
}

// Outcome reports what happened to a digest, per recipient
type Outcome struct {
	// Skipped is true when there were no active recipients; that is a
	// reported condition, not an error
	Skipped  bool
	Sent     []string
	Failures map[string]error
}

// Delivered reports whether at least one recipient accepted the digest.
// Only then may callers mark the covered studies delivered.
func (o Outcome) Delivered() bool {
	return len(o.Sent) > 0
}

// Send transmits one digest message per active recipient. Inactive
// recipients are filtered here so callers can pass the raw recipient list.
// Failures are collected, logged and isolated; recipient B failing cannot
// claw back the message already accepted for recipient A.
func (n *Notifier) Send(ctx context.Context, recipients []db.Recipient, studies []db.Study) Outcome {
	outcome := Outcome{Failures: make(map[string]error)}

	var active []db.Recipient
	for _, r := range recipients {
		if r.Active {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		log.Printf("[notify] No active recipients, skipping digest of %d studies", len(studies))
		outcome.Skipped = true
		return outcome
	}

	subject, body := RenderDigest(studies)

	for _, r := range active {
		if err := n.transport.Send(ctx, r.Email, subject, body); err != nil {
			log.Printf("[notify] Send to %s failed: %v, continuing", r.Email, err)
			outcome.Failures[r.Email] = err
			continue
		}
		outcome.Sent = append(outcome.Sent, r.Email)
	}

	log.Printf("[notify] Digest sent to %d/%d recipients", len(outcome.Sent), len(active))
	return outcome
}
