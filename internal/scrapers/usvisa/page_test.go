package usvisa

import (
	"context"
	"errors"
	"sync"
)

type call struct {
	method   string
	selector string
	value    string
}

// fakePage is a scripted Page that records every interaction.
type fakePage struct {
	mutex sync.Mutex
	calls []call

	visible    map[string]bool
	attributes map[string]string

	gotoErr  error
	clickErr map[string]error
	waitErr  map[string]error
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:    map[string]bool{},
		attributes: map[string]string{},
		clickErr:   map[string]error{},
		waitErr:    map[string]error{},
	}
}

var errNotFound = errors.New("timeout: element not found")

func (p *fakePage) record(c call) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.calls = append(p.calls, c)
}

func (p *fakePage) Calls() []call {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	out := make([]call, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *fakePage) count(method, selector string) int {
	n := 0
	for _, c := range p.Calls() {
		if c.method == method && (selector == "" || c.selector == selector) {
			n++
		}
	}
	return n
}

func (p *fakePage) Goto(ctx context.Context, url string) error {
	p.record(call{method: "goto", value: url})
	return p.gotoErr
}

func (p *fakePage) Fill(ctx context.Context, selector, value string) error {
	p.record(call{method: "fill", selector: selector, value: value})
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	p.record(call{method: "click", selector: selector})
	return p.clickErr[selector]
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string) error {
	p.record(call{method: "wait", selector: selector})
	return p.waitErr[selector]
}

func (p *fakePage) IsVisible(ctx context.Context, selector string) (bool, error) {
	p.record(call{method: "visible", selector: selector})
	return p.visible[selector], nil
}

func (p *fakePage) Attribute(ctx context.Context, selector, name string) (string, error) {
	p.record(call{method: "attribute", selector: selector, value: name})
	return p.attributes[selector+"@"+name], nil
}

func (p *fakePage) WaitSettled(ctx context.Context) error {
	p.record(call{method: "settled"})
	return nil
}
