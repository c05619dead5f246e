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

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/StenApp/angrylion-rdp-plus/curated"
	"github.com/StenApp/angrylion-rdp-plus/digest"
	"github.com/StenApp/angrylion-rdp-plus/hardware/rdram"
	"github.com/StenApp/angrylion-rdp-plus/hardware/vi"
	"github.com/StenApp/angrylion-rdp-plus/logger"
	"github.com/StenApp/angrylion-rdp-plus/modalflag"
	"github.com/StenApp/angrylion-rdp-plus/performance"
	"github.com/StenApp/angrylion-rdp-plus/performance/limiter"
	"github.com/StenApp/angrylion-rdp-plus/screen"
	"github.com/StenApp/angrylion-rdp-plus/screen/sdl"
	"github.com/StenApp/angrylion-rdp-plus/screen/sdlgl"
	"github.com/StenApp/angrylion-rdp-plus/statsview"
	"github.com/StenApp/angrylion-rdp-plus/version"

	"github.com/bradleyjkemp/memviz"
)

// #mainthread
func main() {
	// both presenters want their window on the main OS thread. everything
	// runs on it
	runtime.LockOSThread()

	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)

	case modalflag.ParseError:
		fmt.Fprintf(os.Stderr, "* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)

	case "PERFORMANCE":
		err = perform(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	workers := md.AddInt("workers", 0, "rendering workers. zero selects one per CPU")
	mode := md.AddString("mode", "filtered", "display mode: filtered, color, depth, coverage")
	widescreen := md.AddBool("widescreen", false, "adjust output height for a 16:9 display")
	overscan := md.AddBool("overscan", false, "show the whole prescale canvas")
	tvspec := md.AddString("tvspec", "NTSC", "television specification: NTSC, PAL")
	bits := md.AddInt("bits", 16, "framebuffer word size: 16, 32")
	frames := md.AddInt("frames", 0, "number of frames to render. zero means run until quit")
	screenshot := md.AddString("screenshot", "", "write the final frame to this file as a BMP image")
	gl := md.AddBool("gl", false, "present through an OpenGL 2.1 context")
	digestSink := md.AddBool("digest", false, "render to a digest instead of a window and print the hash")
	memvizFile := md.AddString("memviz", "", "write the resolved frame geometry to this file as graphviz dot")
	stats := md.AddBool("stats", false, "launch the statistics server")
	scale := md.AddFloat64("scale", 2.0, "window scaling")
	fpscap := md.AddBool("fpscap", true, "cap rendering to the television refresh rate")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(md.Output)
		} else {
			fmt.Println("* statsview not available. build with the statsview tag")
		}
	}

	displayMode, err := parseDisplayMode(*mode)
	if err != nil {
		return err
	}

	src, err := newPattern(*tvspec, *bits)
	if err != nil {
		return err
	}

	var scr screen.Screen
	var dig *digest.Video

	switch {
	case *digestSink:
		dig = digest.NewVideo()
		scr = dig
	case *gl:
		scr, err = sdlgl.NewScreen(version.ApplicationName, float32(*scale))
	default:
		scr, err = sdl.NewScreen(version.ApplicationName, float32(*scale))
	}
	if err != nil {
		return err
	}
	defer scr.Close()

	vid, err := vi.NewVI(vi.Config{
		Workers:    *workers,
		Mode:       displayMode,
		Widescreen: *widescreen,
		Overscan:   *overscan,
	}, src.mem, scr)
	if err != nil {
		return err
	}
	defer vid.Close()

	vid.SetDepthSource(src)

	logger.Logf("rdplus", "rendering with %d workers", vid.Workers())

	numFrames := *frames
	if dig != nil && numFrames <= 0 {
		numFrames = 60
	}

	var lim *limiter.FpsLimiter
	if *fpscap && dig == nil {
		lim, err = limiter.NewFPSLimiter(src.refreshRate)
		if err != nil {
			return err
		}
	}

	for i := 0; numFrames <= 0 || i < numFrames; i++ {
		if lim != nil {
			lim.Wait()
		}

		src.advance()

		if *screenshot != "" {
			if (numFrames > 0 && i == numFrames-1) || (numFrames <= 0 && i == 0) {
				vid.Screenshot(*screenshot)
			}
		}

		if err := vid.Update(src.regs); err != nil {
			if curated.Has(err, sdl.UserQuit) || curated.Has(err, sdlgl.UserQuit) {
				break
			}
			return err
		}
	}

	if dig != nil {
		fmt.Fprintf(md.Output, "%s\n", dig.Hash())
	}

	if *memvizFile != "" {
		if err := dumpGeometry(vid, *memvizFile); err != nil {
			return err
		}
	}

	return nil
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	workers := md.AddInt("workers", 0, "rendering workers. zero selects one per CPU")
	mode := md.AddString("mode", "filtered", "display mode: filtered, color, depth, coverage")
	tvspec := md.AddString("tvspec", "NTSC", "television specification: NTSC, PAL")
	bits := md.AddInt("bits", 16, "framebuffer word size: 16, 32")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "run through the profiler: cpu, mem, trace, all")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	displayMode, err := parseDisplayMode(*mode)
	if err != nil {
		return err
	}

	src, err := newPattern(*tvspec, *bits)
	if err != nil {
		return err
	}

	vid, err := vi.NewVI(vi.Config{
		Workers: *workers,
		Mode:    displayMode,
	}, src.mem, digest.NewVideo())
	if err != nil {
		return err
	}
	defer vid.Close()

	vid.SetDepthSource(src)

	return performance.Check(md.Output, prf, *duration, float64(src.refreshRate), func() error {
		src.advance()
		return vid.Update(src.regs)
	})
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display vcs revision")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	fmt.Fprintf(md.Output, "%s (%s)\n", version.ApplicationName, ver)
	if *revision {
		fmt.Fprintln(md.Output, rev)
	}

	return nil
}

func parseDisplayMode(s string) (vi.Mode, error) {
	switch strings.ToUpper(s) {
	case "FILTERED":
		return vi.ModeFiltered, nil
	case "COLOR":
		return vi.ModeColor, nil
	case "DEPTH":
		return vi.ModeDepth, nil
	case "COVERAGE":
		return vi.ModeCoverage, nil
	}
	return vi.ModeFiltered, curated.Errorf("rdplus: unsupported display mode: %v", s)
}

// dumpGeometry writes the frame layout resolved by the most recent update as
// a graphviz dot graph.
func dumpGeometry(vid *vi.VI, path string) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf("rdplus: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("rdplus: %v", err)
		}
	}()

	geo := vid.Geometry()
	memviz.Map(f, &geo)

	return nil
}

// pattern animates a synthetic framebuffer in RDRAM for the video interface
// to read. A colour gradient drifts over the frame with a sprinkling of
// partially covered pixels to keep the antialias and divot paths busy. A
// depth buffer drifts alongside it for the depth display mode.
type pattern struct {
	mem  *rdram.RDRAM
	regs vi.Registers

	bits   int
	width  int
	height int
	origin uint32
	depth  uint32

	refreshRate int

	frame int
}

func newPattern(spec string, bits int) (*pattern, error) {
	pat := &pattern{
		bits:   bits,
		width:  320,
		height: 240,
		origin: 0x1000,
		depth:  0x200000,
	}

	var typ uint32
	switch bits {
	case 16:
		typ = 2
	case 32:
		typ = 3
	default:
		return nil, curated.Errorf("rdplus: unsupported bit depth: %d", bits)
	}

	var err error
	pat.mem, err = rdram.NewRDRAM(0x800000)
	if err != nil {
		return nil, err
	}

	// gamma, gamma dither, divot and the dither filter on. antialias
	// resamples and fetches every pixel
	pat.regs[vi.RegStatus] = 0x1301c | typ
	pat.regs[vi.RegOrigin] = pat.origin
	pat.regs[vi.RegWidth] = uint32(pat.width)
	pat.regs[vi.RegXScale] = 0x200
	pat.regs[vi.RegYScale] = 0x400

	switch strings.ToUpper(spec) {
	case "NTSC":
		pat.refreshRate = 60
		pat.regs[vi.RegVSync] = 0x20d
		pat.regs[vi.RegHStart] = 0x006c02ec
		pat.regs[vi.RegVStart] = 0x002501ff
	case "PAL":
		pat.refreshRate = 50
		pat.regs[vi.RegVSync] = 0x271
		pat.regs[vi.RegHStart] = 0x00800300
		pat.regs[vi.RegVStart] = 0x005f023b
	default:
		return nil, curated.Errorf("rdplus: unsupported television specification: %v", spec)
	}

	return pat, nil
}

// advance fills the framebuffer and depth buffer for the next frame.
func (pat *pattern) advance() {
	switch pat.bits {
	case 32:
		pat.fill32()
	default:
		pat.fill16()
	}
	pat.fillDepth()
	pat.frame++
}

func (pat *pattern) fill16() {
	base := pat.origin >> 1
	f := pat.frame

	for y := 0; y < pat.height; y++ {
		for x := 0; x < pat.width; x++ {
			r := uint16((x+f)>>3) & 0x1f
			g := uint16((y+f>>1)>>3) & 0x1f
			b := uint16((x+y+f)>>4) & 0x1f
			px := r<<11 | g<<6 | b<<1 | 1
			hid := uint8(3)

			if (x*x+y*y+f)%101 < 2 {
				px &^= 1
				hid = 1
			}

			idx := base + uint32(y*pat.width+x)
			pat.mem.Write16(idx, px)
			pat.mem.WriteHidden(idx, hid)
		}
	}
}

func (pat *pattern) fill32() {
	base := pat.origin >> 2
	f := pat.frame

	for y := 0; y < pat.height; y++ {
		for x := 0; x < pat.width; x++ {
			r := uint32(x+f) & 0xff
			g := uint32(y+f>>1) & 0xff
			b := uint32(x+y+f) & 0xff
			a := uint32(0xe0)

			if (x*x+y*y+f)%101 < 2 {
				a = 0x20
			}

			pat.mem.Write32(base+uint32(y*pat.width+x), r<<24|g<<16|b<<8|a)
		}
	}
}

func (pat *pattern) fillDepth() {
	base := pat.depth >> 1
	f := pat.frame

	for y := 0; y < pat.height; y++ {
		for x := 0; x < pat.width; x++ {
			pat.mem.Write16(base+uint32(y*pat.width+x), uint16((x+y+f)&0xff)<<8)
		}
	}
}

// DepthBufferAddress implements the vi.DepthSource interface.
func (pat *pattern) DepthBufferAddress() uint32 {
	return pat.depth
}
