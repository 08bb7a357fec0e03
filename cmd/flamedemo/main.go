// Command flamedemo runs the interactive fractal flame viewer.
//
// Controls:
//
//	1/2, 3/4, 5/6, 7/8  adjust knobs A, B, C, D
//	Q/W                 adjust depth-of-field amount
//	E/R                 adjust depth-of-field focal distance
//	Space               pause the chaos-game animation
//	P                   save a screenshot
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/flame"
	_ "github.com/gogpu/flame/gpu"
)

const knobStep = 0.01

type game struct {
	renderer *flame.Renderer
	knobs    flame.Knobs
	start    time.Time

	mousePress   [2]float64
	mouseRelease [2]float64

	shots int
}

func (g *game) Update() error {
	adjust := func(dec, inc ebiten.Key, v *float64) {
		if ebiten.IsKeyPressed(dec) {
			*v -= knobStep
		}
		if ebiten.IsKeyPressed(inc) {
			*v += knobStep
		}
	}
	adjust(ebiten.Key1, ebiten.Key2, &g.knobs.A)
	adjust(ebiten.Key3, ebiten.Key4, &g.knobs.B)
	adjust(ebiten.Key5, ebiten.Key6, &g.knobs.C)
	adjust(ebiten.Key7, ebiten.Key8, &g.knobs.D)
	adjust(ebiten.KeyQ, ebiten.KeyW, &g.knobs.DOFAmount)
	adjust(ebiten.KeyE, ebiten.KeyR, &g.knobs.DOFFocalDist)

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.knobs.Paused = !g.knobs.Paused
	}

	cx, cy := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.mousePress = [2]float64{float64(cx), float64(cy)}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.mouseRelease = [2]float64{float64(cx), float64(cy)}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		name := fmt.Sprintf("flame%03d.png", g.shots)
		g.shots++
		pix := g.renderer.RenderFrame(g.frameInput())
		if err := pix.SavePNG(name); err != nil {
			return err
		}
		log.Printf("saved %s", name)
	}
	return nil
}

func (g *game) frameInput() flame.FrameInput {
	cx, cy := ebiten.CursorPosition()
	return flame.FrameInput{
		Time:         time.Since(g.start).Seconds(),
		Cursor:       [2]float64{float64(cx), float64(cy)},
		MouseDown:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		MousePress:   g.mousePress,
		MouseRelease: g.mouseRelease,
		Knobs:        g.knobs,
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	pix := g.renderer.RenderFrame(g.frameInput())
	screen.WritePixels(pix.Data())

	hud := fmt.Sprintf("FPS %.0f  A %.2f  B %.2f  C %.2f  D %.2f  DOF %.2f@%.2f",
		ebiten.ActualFPS(),
		g.knobs.A, g.knobs.B, g.knobs.C, g.knobs.D,
		g.knobs.DOFAmount, g.knobs.DOFFocalDist)
	if g.knobs.Paused {
		hud += "  [paused]"
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func main() {
	var (
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		workers = flag.Int("workers", 0, "CPU worker goroutines (0 = GOMAXPROCS)")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		flame.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	r := flame.NewRenderer(*width, *height, flame.WithWorkers(*workers))
	if r == nil {
		log.Fatalf("invalid dimensions %dx%d", *width, *height)
	}
	defer r.Close()

	g := &game{renderer: r, start: time.Now()}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("flame")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
