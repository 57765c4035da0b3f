// Command dice runs the dice simulation headless. It throws the dice,
// picks the first one up through the camera, drags it across the table,
// drops it and logs the poses.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/akmonengine/dice"
	"github.com/akmonengine/dice/drag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dice:", err)
		os.Exit(1)
	}
}

func run() error {
	scenePath := flag.String("scene", "", "YAML scene file (default: built-in two dice scene)")
	frames := flag.Int("frames", 600, "number of frames to simulate")
	fps := flag.Float64("fps", 60, "simulation frames per second")
	grabAt := flag.Int("grab", 180, "frame at which the primary die is picked up, negative to disable")
	holdFor := flag.Int("hold", 120, "frames the die is dragged before release")
	logEvery := flag.Int("log-every", 30, "log poses every n frames")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	scene := dice.DefaultScene()
	if *scenePath != "" {
		loaded, err := dice.LoadScene(*scenePath)
		if err != nil {
			return err
		}
		scene = loaded
	}

	camera, err := scene.NewCamera()
	if err != nil {
		return err
	}
	world, err := dice.NewWorld(scene, camera, dice.WithLogger(logger))
	if err != nil {
		return err
	}

	world.Events.Subscribe(dice.DRAG_START, func(event dice.Event) {
		logger.Info("picked up", "grab", event.(dice.DragStartEvent).GrabPoint)
	})
	world.Events.Subscribe(dice.DRAG_END, func(dice.Event) {
		logger.Info("released")
	})
	world.Events.Subscribe(dice.COLLISION_ENTER, func(dice.Event) {
		logger.Debug("dice collided")
	})
	world.Events.Subscribe(dice.ON_SLEEP, func(event dice.Event) {
		logger.Info("die at rest", "position", event.(dice.SleepEvent).Body.Transform.Position)
	})

	if *fps <= 0 {
		return fmt.Errorf("fps must be positive, got %v", *fps)
	}
	dt := 1.0 / *fps

	var pointer drag.Pointer
	for frame := 0; frame < *frames; frame++ {
		switch {
		case frame == *grabAt && len(world.Shapes) > 0:
			// Aim at the primary die's center; its depth is the grab depth
			var depth float64
			pointer, depth = camera.Project(world.Shapes[0].Body.Transform.Position)
			if !world.PointerDown(pointer, depth) {
				logger.Warn("pick missed", "pointer", pointer)
			}
		case world.Drag.Active() && frame < *grabAt+*holdFor:
			pointer.X += 2
			world.PointerMove(pointer)
		case world.Drag.Active():
			world.PointerUp()
		}

		world.Step(dt)

		if *logEvery > 0 && frame%*logEvery == 0 {
			for i, body := range world.Bodies() {
				logger.Info("pose",
					"frame", frame,
					"body", scene.Bodies[i].Name,
					"position", body.Transform.Position,
					"sleeping", body.IsSleeping,
				)
			}
			logger.Debug("contacts", "count", len(world.Contacts()), "source", world.Selection().Source.String())
		}
	}

	return nil
}
