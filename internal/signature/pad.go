// Package signature captures a drawn or typed signature and serializes it as a PNG data URI.
package signature

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

// Mode selects how the signature is captured.
type Mode string

const (
	ModeDraw Mode = "draw"
	ModeType Mode = "type"
)

// State is the pad lifecycle position.
type State string

const (
	StateEmpty     State = "empty"
	StateDrawing   State = "drawing"
	StateTyping    State = "typing"
	StateConfirmed State = "confirmed"
)

// Type is the signature type reported to the submission endpoint.
type Type string

const (
	TypeDrawn Type = "drawn"
	TypeTyped Type = "typed"
)

// Prompt texts shown through the Prompter.
const (
	MessageProvideSignature = "Please provide a signature"
	MessageDiscardSignature = "Switching modes will clear your signature. Continue?"
)

var (
	// ErrEmptySignature is returned by Confirm when nothing was drawn or typed.
	ErrEmptySignature = apperrors.Wrap(apperrors.ErrInvalidInput, "please provide a signature")

	// ErrSignatureConfirmed is returned when input arrives after Confirm and before Reset.
	ErrSignatureConfirmed = apperrors.Wrap(apperrors.ErrConflict, "signature already confirmed")

	// ErrModeSwitchDeclined is returned when the user keeps the current signature.
	ErrModeSwitchDeclined = apperrors.Wrap(apperrors.ErrConflict, "mode switch declined")

	// ErrWrongMode is returned for strokes in type mode or text in draw mode.
	ErrWrongMode = apperrors.Wrap(apperrors.ErrInvalidInput, "input does not match the signature mode")

	// ErrUnknownMode is returned by SetMode for anything but draw or type.
	ErrUnknownMode = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown signature mode")
)

// Prompter asks the signer to approve destructive actions and shows blocking alerts.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y float64
}

// Result is a confirmed signature.
type Result struct {
	ImageData string
	Type      Type
	SignedAt  time.Time
}

// Pad is a signature capture surface. It is safe for concurrent use.
type Pad struct {
	mu       sync.Mutex
	config   Config
	prompter Prompter
	now      func() time.Time

	mode    Mode
	state   State
	strokes [][]Point
	text    string
	result  *Result
}

// NewPad returns an empty pad in draw mode.
func NewPad(prompter Prompter, config Config) *Pad {
	return &Pad{
		config:   config.withDefaults(),
		prompter: prompter,
		now:      time.Now,
		mode:     ModeDraw,
		state:    StateEmpty,
	}
}

// Mode returns the capture mode.
func (p *Pad) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// State returns the lifecycle state.
func (p *Pad) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Result returns the confirmed signature, or nil before Confirm.
func (p *Pad) Result() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.result == nil {
		return nil
	}
	result := *p.result
	return &result
}

// SetMode switches between draw and type. With input present, or once confirmed, the signer
// must approve discarding it; a refusal leaves the pad untouched.
func (p *Pad) SetMode(mode Mode) error {
	if mode != ModeDraw && mode != ModeType {
		return ErrUnknownMode
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if mode == p.mode {
		return nil
	}

	if p.state != StateEmpty {
		if !p.prompter.Confirm(MessageDiscardSignature) {
			return ErrModeSwitchDeclined
		}
		p.clearLocked()
	}

	p.mode = mode
	return nil
}

// Clear discards strokes or text. It is not allowed once confirmed.
func (p *Pad) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateConfirmed {
		return ErrSignatureConfirmed
	}
	p.clearLocked()
	return nil
}

// Reset discards everything, including a confirmed signature.
func (p *Pad) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

func (p *Pad) clearLocked() {
	p.strokes = nil
	p.text = ""
	p.result = nil
	p.state = StateEmpty
}

// BeginStroke starts a new stroke at pt.
func (p *Pad) BeginStroke(pt Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acceptInputLocked(ModeDraw); err != nil {
		return err
	}
	p.strokes = append(p.strokes, []Point{pt})
	p.state = StateDrawing
	return nil
}

// ExtendStroke adds pt to the current stroke, starting one if none is open.
func (p *Pad) ExtendStroke(pt Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acceptInputLocked(ModeDraw); err != nil {
		return err
	}
	if len(p.strokes) == 0 {
		p.strokes = append(p.strokes, nil)
	}
	last := len(p.strokes) - 1
	p.strokes[last] = append(p.strokes[last], pt)
	p.state = StateDrawing
	return nil
}

// SetText replaces the typed signature. Blank text returns the pad to Empty.
func (p *Pad) SetText(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acceptInputLocked(ModeType); err != nil {
		return err
	}
	p.text = text
	if strings.TrimSpace(text) == "" {
		p.state = StateEmpty
	} else {
		p.state = StateTyping
	}
	return nil
}

func (p *Pad) acceptInputLocked(mode Mode) error {
	if p.state == StateConfirmed {
		return ErrSignatureConfirmed
	}
	if p.mode != mode {
		return ErrWrongMode
	}
	return nil
}

// Confirm renders the signature and moves to Confirmed. Empty input alerts the signer
// and leaves the state unchanged.
func (p *Pad) Confirm() (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateConfirmed {
		return nil, ErrSignatureConfirmed
	}

	if !p.hasInputLocked() {
		p.prompter.Alert(MessageProvideSignature)
		return nil, ErrEmptySignature
	}

	var (
		imageData string
		sigType   Type
		err       error
	)
	switch p.mode {
	case ModeDraw:
		imageData, err = renderStrokes(p.strokes, p.config)
		sigType = TypeDrawn
	default:
		imageData, err = renderText(strings.TrimSpace(p.text), p.config)
		sigType = TypeTyped
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to render signature")
	}

	p.result = &Result{ImageData: imageData, Type: sigType, SignedAt: p.now().UTC()}
	p.state = StateConfirmed

	result := *p.result
	return &result, nil
}

func (p *Pad) hasInputLocked() bool {
	if p.mode == ModeType {
		return strings.TrimSpace(p.text) != ""
	}
	for _, stroke := range p.strokes {
		if len(stroke) > 0 {
			return true
		}
	}
	return false
}
