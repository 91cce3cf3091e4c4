/*
Package triangle draws a single triangle with Vulkan. It wraps the handful of Vulkan objects
the job needs in small Go types, each holding its parent Device and native handle and
exposing a Destroy method, and ties them together in GraphicsApp.

Overview of the bootstrap

GraphicsApp follows the path every Vulkan program walks before its first pixel appears:

  window -> instance -> surface -> physical device -> logical device and queues
  -> swapchain and one image view per image -> render pass -> pipeline
  -> one framebuffer and command buffer per image -> fence and semaphores

Physical device selection scans the queue families of every device in order and takes
the first device that can draw, present to the surface and create a swapchain. The
swapchain prefers BGRA8 sRGB and mailbox presentation and falls back to the first
format offered and FIFO.

Frames

Every frame waits for the in-flight fence, acquires an image, resets the fence,
re-records the image's command buffer, submits it and presents the result. A swapchain
that no longer matches its surface is rebuilt, and frames are skipped while the window
has no area.

Example

	app, _ := triangle.NewGraphicsApp("hellotriangle", triangle.Version{Major: 1})
	app.SetWindow(window)
	app.Init()
	app.PrepareToDraw()
	defer app.Destroy()
	app.Run(nil)

See examples/hellotriangle for a complete program which also hosts an OpenGL renderer.
*/
package triangle
