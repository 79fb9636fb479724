// Package viewer shows the original, seed and output images of a render
// side by side in a native window.
package viewer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/stipple/internal/render"
)

const helpText = "1/2/3 select  click zoom  s save  c copy  esc close"

// frameDropThreshold bounds how many frames in a row may be cancelled by a
// newer paint request.
const frameDropThreshold = 10

// Viewer owns the window state. Create one with New and call Run.
type Viewer struct {
	title      string
	result     *render.Result
	updates    <-chan *render.Result
	save       func(render.Column, image.Image) (string, error)
	copy       func(render.Column, image.Image) error
	background color.RGBA
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithTitle sets the window title shown in the label strip.
func WithTitle(title string) Option { return func(v *Viewer) { v.title = title } }

// WithUpdates replaces the displayed result whenever a new one arrives.
func WithUpdates(ch <-chan *render.Result) Option { return func(v *Viewer) { v.updates = ch } }

// WithSave is called with the selected column and its image for the s key.
// It returns the written path.
func WithSave(fn func(render.Column, image.Image) (string, error)) Option {
	return func(v *Viewer) { v.save = fn }
}

// WithCopy is called with the selected column and its image for the c key.
func WithCopy(fn func(render.Column, image.Image) error) Option {
	return func(v *Viewer) { v.copy = fn }
}

// WithBackground sets the colour behind the images.
func WithBackground(c color.RGBA) Option { return func(v *Viewer) { v.background = c } }

// New creates a viewer for res.
func New(res *render.Result, opts ...Option) *Viewer {
	v := &Viewer{
		title:      "stipple",
		result:     res,
		background: color.RGBA{40, 40, 40, 255},
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Run blocks until the window is closed.
func (v *Viewer) Run() { driver.Main(v.Main) }

type resultEvent struct{ result *render.Result }

type paintState struct {
	width, height int
	result        *render.Result
	selected      render.Column
	overlay       bool
	message       string
	messageUntil  time.Time
}

// Main runs the event loop on s.
func (v *Viewer) Main(s screen.Screen) {
	if v.result == nil || v.result.Original == nil {
		log.Print("viewer: nothing to show")
		return
	}
	width, height := initialSize(v.result.Original.Bounds())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: v.title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	// Both helper goroutines use w, so they must be gone before Release.
	var wg sync.WaitGroup
	done := make(chan struct{})
	paintCh := make(chan paintState, 1)
	var (
		paintMu     sync.Mutex
		paintCancel context.CancelFunc
		dropCount   int
	)
	defer func() {
		close(done)
		close(paintCh)
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
		wg.Wait()
	}()

	if v.updates != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case res, ok := <-v.updates:
					if !ok {
						return
					}
					w.Send(resultEvent{res})
				case <-done:
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for st := range paintCh {
			select {
			case <-done:
				return
			default:
			}
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			v.drawFrame(ctx, s, w, st)
			cancel()
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	st := paintState{width: width, height: height, result: v.result, selected: render.ColumnOutput}
	flash := func(msg string) {
		log.Print(msg)
		st.message = msg
		st.messageUntil = time.Now().Add(2 * time.Second)
		w.Send(paint.Event{})
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			st.width, st.height = e.WidthPx, e.HeightPx
			w.Send(paint.Event{})
		case resultEvent:
			st.result = e.result
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
				continue
			}
			if st.overlay {
				st.overlay = false
			} else if col, ok := hitColumn(image.Pt(int(e.X), int(e.Y)), columnRects(st.width, st.height)); ok {
				st.selected = col
				st.overlay = true
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			switch {
			case e.Code == key.CodeEscape:
				if !st.overlay {
					return
				}
				st.overlay = false
			case e.Rune == 'q':
				return
			case e.Rune >= '1' && e.Rune <= '3':
				st.selected = columns[e.Rune-'1']
			case e.Code == key.CodeReturnEnter || e.Rune == ' ':
				st.overlay = !st.overlay
			case e.Rune == 's':
				if v.save == nil {
					continue
				}
				path, err := v.save(st.selected, st.result.Image(st.selected))
				if err != nil {
					flash(fmt.Sprintf("save %s: %v", st.selected, err))
					continue
				}
				flash(fmt.Sprintf("saved %s", path))
				continue
			case e.Rune == 'c':
				if v.copy == nil {
					continue
				}
				if err := v.copy(st.selected, st.result.Image(st.selected)); err != nil {
					flash(fmt.Sprintf("copy %s: %v", st.selected, err))
					continue
				}
				flash(fmt.Sprintf("%s image copied to clipboard", st.selected))
				continue
			default:
				continue
			}
			w.Send(paint.Event{})
		case error:
			log.Print(e)
		}
	}
}

func (v *Viewer) drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	draw.Draw(dst, dst.Bounds(), &image.Uniform{v.background}, image.Point{}, draw.Src)

	if st.overlay {
		area := overlayRect(st.width, st.height).Inset(padding)
		drawImage(dst, area, st.result.Image(st.selected), st.selected)
		drawLabel(dst, image.Pt(padding, 14), st.selected.String())
	} else {
		for i, r := range columnRects(st.width, st.height) {
			if ctx.Err() != nil {
				return
			}
			col := columns[i]
			drawImage(dst, r.Inset(padding), st.result.Image(col), col)
			label := fmt.Sprintf("%d %s", i+1, col)
			if col == st.selected {
				drawBorder(dst, r.Inset(1), color.RGBA{255, 200, 0, 255})
				label += " *"
			}
			drawLabel(dst, image.Pt(r.Min.X+padding, 14), label)
		}
	}
	if ctx.Err() != nil {
		return
	}

	status := helpText
	if st.message != "" && time.Now().Before(st.messageUntil) {
		status = st.message
	}
	bar := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, bar, &image.Uniform{color.RGBA{20, 20, 20, 255}}, image.Point{}, draw.Src)
	drawLabel(dst, image.Pt(padding, st.height-6), status)

	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawImage scales img into area. Canvas columns use nearest neighbour so
// single-cell marks stay crisp.
func drawImage(dst *image.RGBA, area image.Rectangle, img image.Image, col render.Column) {
	if img == nil {
		return
	}
	r := fitRect(img.Bounds(), area)
	if r.Empty() {
		return
	}
	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if col == render.ColumnOriginal {
		scaler = xdraw.ApproxBiLinear
	}
	scaler.Scale(dst, r, img, img.Bounds(), draw.Src, nil)
}

func drawLabel(dst *image.RGBA, at image.Point, text string) {
	d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13, Dot: fixed.P(at.X, at.Y)}
	d.DrawString(text)
}

func drawBorder(dst *image.RGBA, r image.Rectangle, c color.Color) {
	u := &image.Uniform{c}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
