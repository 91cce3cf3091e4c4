package triangle

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

type recordingRenderer struct {
	calls []string

	image      uint32
	extent     vk.Extent2D
	waitErr    error
	acquireErr error
	submitErr  error
	presentErr error
	rebuildErr error
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{extent: vk.Extent2D{Width: 800, Height: 600}}
}

func (r *recordingRenderer) waitForFrame() error {
	r.calls = append(r.calls, "wait")
	return r.waitErr
}

func (r *recordingRenderer) acquireImage() (uint32, error) {
	r.calls = append(r.calls, "acquire")
	return r.image, r.acquireErr
}

func (r *recordingRenderer) recordFrame(imageIndex uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("record %d", imageIndex))
	return nil
}

func (r *recordingRenderer) submitFrame(imageIndex uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("submit %d", imageIndex))
	return r.submitErr
}

func (r *recordingRenderer) presentFrame(imageIndex uint32) error {
	r.calls = append(r.calls, fmt.Sprintf("present %d", imageIndex))
	return r.presentErr
}

func (r *recordingRenderer) framebufferExtent() vk.Extent2D {
	return r.extent
}

func (r *recordingRenderer) rebuildSwapchain() error {
	r.calls = append(r.calls, "rebuild")
	return r.rebuildErr
}

func TestDrawFrameOrder(t *testing.T) {
	r := newRecordingRenderer()
	r.image = 2
	l := &frameLoop{r: r}
	require.NoError(t, l.drawFrame())
	assert.Equal(t, []string{"wait", "acquire", "record 2", "submit 2", "present 2"}, r.calls)
	assert.False(t, l.swapchainDirty)
}

func TestDrawFrameAcquireOutOfDate(t *testing.T) {
	r := newRecordingRenderer()
	r.acquireErr = ErrSwapchainOutOfDate
	l := &frameLoop{r: r}
	require.NoError(t, l.drawFrame())
	// nothing is recorded so the fence stays signaled
	assert.Equal(t, []string{"wait", "acquire", "rebuild"}, r.calls)
	assert.False(t, l.swapchainDirty)
}

func TestDrawFramePresentOutOfDate(t *testing.T) {
	r := newRecordingRenderer()
	r.image = 1
	r.presentErr = ErrSwapchainOutOfDate
	l := &frameLoop{r: r}
	require.NoError(t, l.drawFrame())
	assert.Equal(t, []string{"wait", "acquire", "record 1", "submit 1", "present 1", "rebuild"}, r.calls)
}

func TestDrawFrameMinimisedDefersRebuild(t *testing.T) {
	r := newRecordingRenderer()
	r.extent = vk.Extent2D{Width: 0, Height: 0}
	r.acquireErr = ErrSwapchainOutOfDate
	l := &frameLoop{r: r}

	require.NoError(t, l.drawFrame())
	assert.Equal(t, []string{"wait", "acquire"}, r.calls)
	assert.True(t, l.swapchainDirty)

	// still minimised, the frame is skipped without touching the fence
	r.calls = nil
	r.acquireErr = nil
	require.NoError(t, l.drawFrame())
	assert.Empty(t, r.calls)
	assert.True(t, l.swapchainDirty)

	// a zero width alone is enough to keep waiting
	r.extent = vk.Extent2D{Width: 0, Height: 600}
	require.NoError(t, l.drawFrame())
	assert.Empty(t, r.calls)

	r.extent = vk.Extent2D{Width: 1024, Height: 768}
	require.NoError(t, l.drawFrame())
	assert.Equal(t, []string{"rebuild", "wait", "acquire", "record 0", "submit 0", "present 0"}, r.calls)
	assert.False(t, l.swapchainDirty)
}

func TestDrawFrameRebuildFailure(t *testing.T) {
	r := newRecordingRenderer()
	r.rebuildErr = errors.New("out of device memory")
	l := &frameLoop{r: r, swapchainDirty: true}

	err := l.drawFrame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recreate swapchain")
	assert.Equal(t, []string{"rebuild"}, r.calls)
	assert.True(t, l.swapchainDirty)
}

func TestDrawFrameWaitTimeout(t *testing.T) {
	r := newRecordingRenderer()
	r.waitErr = ErrTimeout
	err := (&frameLoop{r: r}).drawFrame()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), "wait for in-flight fence")
	assert.Equal(t, []string{"wait"}, r.calls)
}

func TestDrawFrameSubmitFailure(t *testing.T) {
	r := newRecordingRenderer()
	r.submitErr = errors.New("device lost")
	err := (&frameLoop{r: r}).drawFrame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit draw command buffer")
	assert.NotContains(t, r.calls, "present 0")
}

func TestDrawFrameAcquireFailure(t *testing.T) {
	r := newRecordingRenderer()
	r.acquireErr = ErrTimeout
	err := (&frameLoop{r: r}).drawFrame()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, []string{"wait", "acquire"}, r.calls)
}

func TestAcquireResult(t *testing.T) {
	for _, tc := range []struct {
		res     vk.Result
		want    error
		isError bool
	}{
		{vk.Success, nil, false},
		{vk.Suboptimal, nil, false},
		{vk.ErrorOutOfDate, ErrSwapchainOutOfDate, true},
		{vk.Timeout, ErrTimeout, true},
		{vk.NotReady, ErrTimeout, true},
		{vk.ErrorDeviceLost, nil, true},
		{vk.ErrorSurfaceLost, nil, true},
	} {
		err := acquireResult(tc.res)
		if !tc.isError {
			assert.NoError(t, err, "result %d", tc.res)
			continue
		}
		require.Error(t, err, "result %d", tc.res)
		if tc.want != nil {
			assert.True(t, errors.Is(err, tc.want), "result %d", tc.res)
		} else {
			assert.False(t, errors.Is(err, ErrSwapchainOutOfDate), "result %d", tc.res)
			assert.Contains(t, err.Error(), "acquire next image")
		}
	}
}

func TestPresentResult(t *testing.T) {
	assert.NoError(t, presentResult(vk.Success))
	assert.True(t, errors.Is(presentResult(vk.ErrorOutOfDate), ErrSwapchainOutOfDate))
	assert.True(t, errors.Is(presentResult(vk.Suboptimal), ErrSwapchainOutOfDate))

	err := presentResult(vk.ErrorDeviceLost)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSwapchainOutOfDate))
	assert.Contains(t, err.Error(), "queue present")
}
