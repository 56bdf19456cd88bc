// Package bubblestack drops a stack of circular link badges into a container
// under gravity the first time the container scrolls into view, then keeps
// each badge's on-screen placement in step with its physics body.
//
// The package has two layers. The core (World, Body, VisibilityTrigger,
// RenderSync, Controller, Config) has no rendering dependency and is driven
// by any [Scheduler]; [FrameLoop] is a manual one for tests and terminal
// hosts. The host layer is a small retained-mode scene graph on
// [Ebitengine]: [Scene], [Node], [Camera] and [MountStack].
//
// # Quick start
//
//	scene := bubblestack.NewScene()
//	scene.NewCamera(bubblestack.Rect{Width: 800, Height: 600})
//
//	stack, err := bubblestack.MountStack(scene, bubblestack.StackOptions{
//		Config: bubblestack.DefaultConfig(),
//		Origin: bubblestack.Vec2{X: 0, Y: 900},
//		Open:   func(url string) { log.Println("open", url) },
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer stack.Unmount()
//
//	bubblestack.Run(scene, bubblestack.RunConfig{Title: "Bubbles", Width: 800, Height: 600})
//
// # Lifecycle
//
// A [Controller] moves Idle -> Triggered -> Running -> TornDown and never
// backwards. Observations reach it every frame until the container is at
// least [Config.Threshold] visible; it then measures the container once,
// builds the world with its floor and side walls, and registers a frame
// task that steps the world and writes one placement per badge. Teardown is
// idempotent and releases the frame task, the sync subscription and the
// world together.
//
// # Physics
//
// Bodies are circles (badges) and static boxes (boundaries). Steps use a
// fixed time step with semi-implicit Euler integration, air friction and a
// few solver passes. A contact bounces with the larger restitution of the
// pair; contacts slower than [DefaultRestingSpeed] are treated as inelastic
// so stacks come to rest exactly on their supports.
//
// # Configuration
//
// [DefaultConfig] holds the designed layout. [LoadConfig] overlays a YAML
// file on it. Logging goes through a logrus logger; see [Logger],
// [ConfigureLogging] and [SetDebugMode].
//
// # ECS integration
//
// [Scene.SetEntityStore] forwards click, hover, state and settle events to
// an [EntityStore]. The ecs submodule provides one backed by donburi.
//
// [Ebitengine]: https://ebitengine.org
package bubblestack
