// Package chart derives the symbol the price chart follows from the draft
// title.
package chart

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Defaults.
const (
	DefaultDelay    = time.Second
	DefaultMinTitle = 3
	DefaultSymbol   = "EURUSD"
)

// Debouncer updates the chart symbol once the title has been quiet for the
// configured delay. Titles shorter than the minimum keep the current symbol.
type Debouncer struct {
	delay    time.Duration
	minTitle int
	emit     func(symbol string)

	mu     sync.Mutex
	timer  *time.Timer
	symbol string
	seq    uint64
}

// NewDebouncer returns a debouncer starting at symbol. emit is called from
// the timer goroutine each time the symbol changes.
func NewDebouncer(delay time.Duration, minTitle int, symbol string, emit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if minTitle <= 0 {
		minTitle = DefaultMinTitle
	}
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if emit == nil {
		emit = func(string) {}
	}
	return &Debouncer{delay: delay, minTitle: minTitle, symbol: symbol, emit: emit}
}

// Symbol returns the current chart symbol.
func (d *Debouncer) Symbol() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.symbol
}

// Update records a title change and restarts the quiet period.
func (d *Debouncer) Update(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq, title) })
}

// Stop cancels a pending update.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
}

func (d *Debouncer) fire(seq uint64, title string) {
	d.mu.Lock()
	if seq != d.seq || utf8.RuneCountInString(title) < d.minTitle {
		d.mu.Unlock()
		return
	}
	symbol := strings.ToUpper(title)
	changed := symbol != d.symbol
	d.symbol = symbol
	d.mu.Unlock()

	if changed {
		d.emit(symbol)
	}
}
