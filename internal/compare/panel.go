package compare

import "sync"

// Panel owns the computed changelog and the viewport over it.
//
// Blocks are recomputed on every Refresh. Each time the endpoint pair
// changes the viewport jumps back to the anchor at the top, so the newest
// version in range is always what the reader sees first.
type Panel struct {
	mu     sync.Mutex
	key    PairKey
	valid  bool
	blocks []Block
	offset int
}

// NewPanel returns an empty panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Refresh recomputes the panel from c. The viewport returns to the anchor
// only if the endpoint pair differs from the last one seen, which is what
// Refresh reports.
func (p *Panel) Refresh(c Comparison, comp Component) bool {
	key := c.Key()

	p.mu.Lock()
	defer p.mu.Unlock()

	changed := !p.valid || key != p.key
	if changed {
		p.recompute(c, comp, key)
		return true
	}
	p.blocks = Blocks(c, comp)
	p.clamp()
	return false
}

func (p *Panel) recompute(c Comparison, comp Component, key PairKey) {
	p.blocks = Blocks(c, comp)
	p.key = key
	p.valid = true
	p.offset = 0
}

// Blocks returns the current blocks.
func (p *Panel) Blocks() []Block {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocks
}

// Key returns the endpoint pair the panel was last computed for.
func (p *Panel) Key() PairKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.key
}

// Offset returns the index of the first visible block.
func (p *Panel) Offset() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.offset
}

// Scroll moves the viewport by delta blocks, clamped to the panel.
func (p *Panel) Scroll(delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset += delta
	p.clamp()
	return p.offset
}

// Visible returns at most height blocks starting at the viewport offset.
// A non-positive height returns everything from the offset on.
func (p *Panel) Visible(height int) []Block {
	p.mu.Lock()
	defer p.mu.Unlock()

	rest := p.blocks[p.offset:]
	if height > 0 && len(rest) > height {
		return rest[:height]
	}
	return rest
}

func (p *Panel) clamp() {
	if p.offset > len(p.blocks)-1 {
		p.offset = len(p.blocks) - 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}
