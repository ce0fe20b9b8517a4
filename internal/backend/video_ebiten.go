package backend

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/iburimskiy/gradient-tone/internal/audio"
	"github.com/iburimskiy/gradient-tone/internal/game"
	"github.com/iburimskiy/gradient-tone/internal/pixel"
)

const scopeFrames = 512

// Window is the ebiten side of the loop. ebiten calls Update once per frame
// (TPS is synced to FPS); Update turns ebiten input into loop events and
// runs one App.Step. Blit converts the back buffer and Draw stretches it
// over the client area.
type Window struct {
	game.Queue

	app       *game.App
	tap       *audio.Tap
	showStats bool

	clientW int
	clientH int

	frame *ebiten.Image
	rgba  []byte
	srcW  int
	srcH  int
	dst   image.Rectangle

	keys       []ebiten.Key
	gamepadIDs []ebiten.GamepadID
}

// NewWindow opens nothing yet; ebiten.RunGame shows the window.
func NewWindow(title string, width, height int, showStats bool) *Window {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetRunnableOnUnfocused(true)

	return &Window{
		clientW:   width,
		clientH:   height,
		showStats: showStats,
	}
}

// Attach wires the window in as the app's surface, event source and pads.
func (w *Window) Attach(app *game.App, tap *audio.Tap) {
	w.app = app
	w.tap = tap
	app.Events = w
	app.Surface = w
	app.Pads = w
}

// Run blocks until the loop stops or the window fails.
func (w *Window) Run() error {
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	w.collectEvents()
	if err := w.app.Step(); err != nil {
		return err
	}
	if w.app.State() == game.Stopped {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) collectEvents() {
	if ebiten.IsWindowBeingClosed() {
		w.Push(game.Event{Kind: game.EventCloseRequested})
	}

	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, k := range w.keys {
		w.Push(game.Event{Kind: game.EventKey, Key: game.KeyEvent{Name: k.String(), IsDown: true, Alt: alt}})
		if k == ebiten.KeyF4 && alt {
			w.Push(game.Event{Kind: game.EventQuit})
		}
	}
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	for _, k := range w.keys {
		w.Push(game.Event{Kind: game.EventKey, Key: game.KeyEvent{Name: k.String(), WasDown: true, Alt: alt}})
	}

	w.gamepadIDs = ebiten.AppendGamepadIDs(w.gamepadIDs[:0])
}

func (w *Window) ClientSize() (int, int) {
	return w.clientW, w.clientH
}

func (w *Window) Blit(buf *pixel.Buffer, dst image.Rectangle) error {
	need := buf.Width * buf.Height * 4
	if len(w.rgba) != need {
		w.rgba = make([]byte, need)
	}
	buf.CopyRGBA(w.rgba)
	w.srcW, w.srcH = buf.Width, buf.Height
	w.dst = dst
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.srcW == 0 || w.srcH == 0 {
		return
	}
	if w.frame == nil || w.frame.Bounds().Dx() != w.srcW || w.frame.Bounds().Dy() != w.srcH {
		if w.frame != nil {
			w.frame.Deallocate()
		}
		w.frame = ebiten.NewImage(w.srcW, w.srcH)
	}
	w.frame.WritePixels(w.rgba)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.dst.Dx())/float64(w.srcW), float64(w.dst.Dy())/float64(w.srcH))
	op.GeoM.Translate(float64(w.dst.Min.X), float64(w.dst.Min.Y))
	screen.DrawImage(w.frame, op)

	if w.showStats {
		w.drawOverlay(screen)
	}
}

// Layout reports the client area; a change becomes a resize event for the
// next iteration.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	outsideWidth = max(outsideWidth, 1)
	outsideHeight = max(outsideHeight, 1)
	if outsideWidth != w.clientW || outsideHeight != w.clientH {
		w.clientW, w.clientH = outsideWidth, outsideHeight
		w.Push(game.ResizeEvent(outsideWidth, outsideHeight))
	}
	return outsideWidth, outsideHeight
}

func (w *Window) drawOverlay(screen *ebiten.Image) {
	face := basicfont.Face7x13
	textColor := color.RGBA{R: 230, G: 230, B: 230, A: 255}

	vector.DrawFilledRect(screen, 0, 0, float32(w.clientW), 58, color.RGBA{A: 160}, false)
	text.Draw(screen, w.app.Stats.String(), face, 8, 16, textColor)
	out := w.app.Sound.Out
	line := fmt.Sprintf("audio %d Hz idx %d skipped %d | pads %d | buffer %dx%d",
		out.ToneHz, out.RunningSampleIndex, w.app.Sound.Skipped, w.app.ConnectedPads(), w.srcW, w.srcH)
	text.Draw(screen, line, face, 8, 32, textColor)

	if w.tap == nil {
		return
	}
	samples := w.tap.Snapshot(scopeFrames)
	width := float32(w.clientW - 16)
	step := width / float32(len(samples))
	mid := float32(46)
	scopeColor := color.RGBA{R: 0, G: 220, B: 90, A: 255}
	for i := 1; i < len(samples); i++ {
		x1 := 8 + float32(i-1)*step
		x2 := 8 + float32(i)*step
		y1 := mid - float32(samples[i-1][0])*80
		y2 := mid - float32(samples[i][0])*80
		vector.StrokeLine(screen, x1, y1, x2, y2, 1, scopeColor, false)
	}
}
