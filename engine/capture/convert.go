package capture

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	// rowsPerBand is the band height each conversion task handles. Large
	// enough that task overhead stays negligible next to the memory work.
	rowsPerBand = 64

	checkerBlockSize = 64
)

// converter turns X11 ZPixmap data into RGBA using a pool of reusable
// workers, one band of rows per task.
type converter struct {
	pool worker.DynamicWorkerPool
}

func newConverter() *converter {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &converter{
		pool: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
	}
}

// toRGBA converts a ZPixmap frame to tightly packed RGBA. Depth 24 and 32
// frames are both 4 bytes per pixel on the wire (BGRX/BGRA).
func (c *converter) toRGBA(data []byte, width, height uint32, depth byte) ([]byte, error) {
	if depth != 24 && depth != 32 {
		return nil, fmt.Errorf("capture: unsupported pixmap depth %d", depth)
	}
	if uint32(len(data)) < width*height*4 {
		return nil, fmt.Errorf("capture: short pixmap data, got %d bytes for %dx%d", len(data), width, height)
	}

	out := make([]byte, width*height*4)

	// Workers are reused across frames. A WaitGroup provides the per-frame
	// barrier since pool.Wait() blocks until workers idle-exit, which is
	// unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	taskID := 0
	for start := uint32(0); start < height; start += rowsPerBand {
		end := start + rowsPerBand
		if end > height {
			end = height
		}

		wg.Add(1)
		bandStart, bandEnd := start, end
		id := taskID
		taskID++
		c.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				convertRows(data, out, width, bandStart, bandEnd, depth == 32)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return out, nil
}

// convertRows converts rows [start, end) from BGRX/BGRA to RGBA in place
// into out. Exposed separately from the pool plumbing for direct testing.
func convertRows(src, out []byte, width, start, end uint32, hasAlpha bool) {
	for row := start; row < end; row++ {
		offset := row * width * 4
		for x := uint32(0); x < width; x++ {
			i := offset + x*4
			out[i] = src[i+2]
			out[i+1] = src[i+1]
			out[i+2] = src[i]
			if hasAlpha {
				out[i+3] = src[i+3]
			} else {
				out[i+3] = 0xFF
			}
		}
	}
}

// checkerboard renders the grey placeholder pattern shown before the first
// successful capture.
func checkerboard(width, height uint32) []byte {
	const light, dark = 200, 60

	out := make([]byte, width*height*4)
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			shade := byte(dark)
			if (x/checkerBlockSize+y/checkerBlockSize)%2 == 0 {
				shade = light
			}
			i := (y*width + x) * 4
			out[i] = shade
			out[i+1] = shade
			out[i+2] = shade
			out[i+3] = 0xFF
		}
	}
	return out
}
