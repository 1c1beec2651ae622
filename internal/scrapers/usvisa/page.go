package usvisa

import "context"

// Page is the subset of a browser page the client drives. Every call blocks until
// it succeeds or the context is done, implementations take their timeout from
// the context deadline.
type Page interface {
	Goto(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	// WaitVisible blocks until an element matching selector is visible.
	WaitVisible(ctx context.Context, selector string) error
	// IsVisible checks the current state of the page without waiting.
	IsVisible(ctx context.Context, selector string) (bool, error)
	// Attribute returns "" without an error when the attribute is absent.
	Attribute(ctx context.Context, selector, name string) (string, error)
	// WaitSettled blocks until the page has no more network activity.
	WaitSettled(ctx context.Context) error
}
