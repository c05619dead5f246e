// This file is part of RDP Plus.
//
// RDP Plus is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RDP Plus is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RDP Plus.  If not, see <https://www.gnu.org/licenses/>.

package vi

import (
	"github.com/StenApp/angrylion-rdp-plus/bitmap"
	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/hardware/rdram"
	"github.com/StenApp/angrylion-rdp-plus/logger"
	"github.com/StenApp/angrylion-rdp-plus/parallel"
	"github.com/StenApp/angrylion-rdp-plus/screen"
)

// Sentinal errors returned by the engine.
const (
	UnsupportedColorType = "vi: unsupported color type: %v"
	OversizedVSync       = "vi: vertical sync beyond prescale capacity: %d"
	UnknownMode          = "vi: unknown display mode: %d"
)

// Anamorphic display resolutions for the two television standards.
const (
	HorzResNTSC = 640
	VertResNTSC = 480
	HorzResPAL  = 768
	VertResPAL  = 576
)

// Typical vertical sync register values for the two television standards.
const (
	VSyncNTSC = 525
	VSyncPAL  = 625
)

// Dimensions of the prescale canvas, the intermediate buffer every frame is
// rendered into: the widest NTSC line by the tallest PAL sync.
const (
	PrescaleWidth  = HorzResNTSC
	PrescaleHeight = VSyncPAL
)

// a remembered vertical start that can never match a real register value,
// used before the first serrated frame has been seen
const initialVStart = 1337

// Mode selects which pipeline renders the frame and what it shows.
type Mode int

// List of valid Mode values.
const (
	// the full filter chain over the colour buffer
	ModeFiltered Mode = iota

	// the colour buffer as-is, unscaled and unfiltered
	ModeColor

	// the high bytes of the depth buffer as greyscale
	ModeDepth

	// the coverage plane as greyscale
	ModeCoverage
)

func (mode Mode) String() string {
	switch mode {
	case ModeFiltered:
		return "filtered"
	case ModeColor:
		return "color"
	case ModeDepth:
		return "depth"
	case ModeCoverage:
		return "coverage"
	}
	return "unknown"
}

// Config is the engine configuration. The value is copied at creation; the
// display mode can be changed later through SetMode().
type Config struct {
	// number of workers rendering a frame. zero or less selects one worker
	// per logical CPU
	Workers int

	// the pipeline and view rendered by Update()
	Mode Mode

	// adjust the output height for display on a 16:9 screen
	Widescreen bool

	// emit the entire prescale canvas instead of cropping to the visible
	// window, making the normally hidden border area visible
	Overscan bool
}

// DepthSource supplies the RDRAM address of the rasterizer's depth buffer.
// The rasterizer owns that address; the video interface only needs it for
// the depth display mode.
type DepthSource interface {
	DepthBufferAddress() uint32
}

// VI is an instance of the video interface. Must be created with NewVI().
//
// The type is not safe for concurrent use. One goroutine drives Update();
// the engine spreads the work over its own pool internally.
type VI struct {
	cfg Config
	mem *rdram.RDRAM
	scr screen.Screen
	dsp *parallel.Dispatcher

	// the canvas. one spare row beyond PrescaleHeight covers the lower
	// field of a serrated frame having started one row down
	prescale []uint32

	// mode of the previous Update(), so a mode change can clear the canvas
	lastMode Mode

	geom Geometry

	// interlace bookkeeping. emuControlsVCurrent is -1 until the first two
	// serrated frames have shown whether the current-line register moves on
	// its own
	prevVCurrent        uint32
	emuControlsVCurrent int
	prevSerrate         bool
	oldLowerField       bool
	oldVStart           int32
	prevWasBlank        bool

	warnedVBus   bool
	warnedNoLerp bool

	depth DepthSource

	screenshotPath string

	closed bool

	// suppresses the scanline cache exchange so its transparency can be
	// checked
	noCacheSwap bool
}

// NewVI creates a video interface reading frames from mem and presenting
// them on scr.
func NewVI(cfg Config, mem *rdram.RDRAM, scr screen.Screen) (*VI, error) {
	if mem == nil {
		return nil, curated.Errorf("vi: %v", "no memory instance")
	}
	if scr == nil {
		return nil, curated.Errorf("vi: %v", "no screen instance")
	}

	vid := &VI{
		cfg:                 cfg,
		mem:                 mem,
		scr:                 scr,
		dsp:                 parallel.NewDispatcher(cfg.Workers),
		prescale:            make([]uint32, PrescaleWidth*(PrescaleHeight+1)),
		lastMode:            cfg.Mode,
		emuControlsVCurrent: -1,
		oldVStart:           initialVStart,
	}

	return vid, nil
}

// Update renders one frame from the register snapshot: resolve the
// geometry, run the pixel pass, compose the result and present it. Frames
// the resolution decides are not displayable return nil without touching
// the screen.
func (vid *VI) Update(regs Registers) error {
	if vid.closed {
		return curated.Errorf("vi: %v", curated.Errorf(parallel.NotAccepting))
	}

	if vid.cfg.Mode != vid.lastMode {
		vid.lastMode = vid.cfg.Mode
		for i := range vid.prescale {
			vid.prescale[i] = 0
		}
	}

	var ok bool
	var err error

	switch vid.cfg.Mode {
	case ModeFiltered:
		ok, err = vid.resolveGeometry(regs)
	case ModeColor, ModeDepth, ModeCoverage:
		ok, err = vid.resolveGeometryFast(regs)
	default:
		return curated.Errorf(UnknownMode, int(vid.cfg.Mode))
	}
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	task := vid.renderLines
	if vid.cfg.Mode != ModeFiltered {
		task = vid.renderLinesFast
	}

	if vid.dsp.Workers() == 1 {
		task(0)
	} else if err := vid.dsp.Run(task); err != nil {
		return curated.Errorf("vi: %v", err)
	}

	var presented bool
	if vid.cfg.Mode == ModeFiltered {
		presented, err = vid.compose()
	} else {
		presented, err = vid.composeFast()
	}
	if err != nil {
		return err
	}
	if !presented {
		return nil
	}

	if err := vid.scr.Swap(); err != nil {
		return curated.Errorf("vi: %v", err)
	}

	return nil
}

// compose hands the filtered frame to the sink: either the window the
// geometry describes or, with overscan on, the whole canvas. The target
// height normalises the picture against the NTSC sync so PAL and NTSC
// content end up the same size on screen.
//
// A cropped window can come out empty, when the window is narrower than the
// border trim or has no lines. The hardware shows nothing for such a frame;
// compose returns false without calling the sink.
func (vid *VI) compose() (bool, error) {
	geo := &vid.geom

	var frm screen.Frame
	frm.Pitch = PrescaleWidth

	if vid.cfg.Overscan {
		frm.Width = PrescaleWidth
		if geo.IsPAL {
			frm.Height = VertResPAL
		} else {
			frm.Height = VertResNTSC
		}
		if !geo.Ctrl.Serrate {
			frm.Height >>= 1
		}
		frm.TargetHeight = VertResNTSC
		frm.Pixels = vid.prescale[:frm.Height*PrescaleWidth]
	} else {
		width := geo.MaxHPass - geo.MinHPass
		height := geo.VRes
		x := geo.HStart + geo.MinHPass
		y := geo.VStart
		if geo.LowerField {
			y++
		}
		if geo.Ctrl.Serrate {
			height <<= 1
			y <<= 1
		}

		if width <= 0 || height <= 0 {
			return false, nil
		}

		frm.Width = int(width)
		frm.Height = int(height)
		frm.TargetHeight = int((geo.VRes << 1) * VSyncNTSC / geo.VSync)

		off := int(y)*PrescaleWidth + int(x)
		frm.Pixels = vid.prescale[off : off+(int(height)-1)*PrescaleWidth+frm.Width]
	}

	if vid.cfg.Widescreen {
		frm.TargetHeight = frm.TargetHeight * 9 / 16
	}

	if err := vid.scr.Upload(frm); err != nil {
		return false, curated.Errorf("vi: %v", err)
	}

	vid.snapshot(frm)

	return true, nil
}

// snapshot writes the composed frame to the requested screenshot file, if
// one has been requested. Failure to write is logged, not returned.
func (vid *VI) snapshot(frm screen.Frame) {
	if vid.screenshotPath == "" {
		return
	}

	if err := bitmap.Save(vid.screenshotPath, frm); err != nil {
		logger.Logf("vi", "screenshot: %v", err)
	} else {
		logger.Logf("vi", "screenshot written to %s", vid.screenshotPath)
	}

	vid.screenshotPath = ""
}

// Screenshot requests that the next rendered frame be written to path as a
// BMP image. The request fires once and clears itself.
func (vid *VI) Screenshot(path string) {
	vid.screenshotPath = path
}

// SetDepthSource attaches the provider of the depth buffer address used by
// the depth display mode. Without one the mode samples from address zero.
func (vid *VI) SetDepthSource(depth DepthSource) {
	vid.depth = depth
}

// SetMode changes the display mode for subsequent Update() calls. The mode
// is validated by Update(), not here.
func (vid *VI) SetMode(mode Mode) {
	vid.cfg.Mode = mode
}

// Geometry returns the frame layout resolved by the most recent Update().
func (vid *VI) Geometry() Geometry {
	return vid.geom
}

// Workers returns the number of workers rendering each frame.
func (vid *VI) Workers() int {
	return vid.dsp.Workers()
}

// Close stops the worker pool. Update() after Close() fails with the
// dispatcher's illegal-state error. Safe to call more than once.
func (vid *VI) Close() error {
	if !vid.closed {
		vid.closed = true
		vid.dsp.Close()
	}
	return nil
}
