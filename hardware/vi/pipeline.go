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

// Filtered pixels pass through up to five stages: fetch with coverage
// (restore or antialias applied on the way in), divot correction, vertical
// and horizontal interpolation, gamma, and the edge gate. Fetched and divot
// corrected pixels are cached per scanline so that neighbouring output
// pixels, which mostly resolve to the same source columns, fetch and filter
// each column once. A cache row is demand filled left to right under a high
// water marker; slot n holds source column n-1, keeping the column to the
// left of the frame in range at slot zero.
//
// Caches come in pairs, one row for the current source line and one for the
// line below (needed only when interpolating). The largest column reachable
// fixes the row size: maximal scale and scale offset over the widest line,
// plus the back porch overshoot a left-clamped window folds into the
// accumulator.
const cacheSize = 0xc10

// renderLines runs the filtered pipeline over the scanlines of the resolved
// frame that belong to the given worker. Worker w renders lines w, w+N, w+2N
// and so on. Nothing here mutates shared state: determinism and freedom from
// races follow from the line partition.
func (vid *VI) renderLines(worker int) {
	geo := &vid.geom

	var aaCache [cacheSize * 2]ccvg
	var divotCache [cacheSize * 2]ccvg

	aaCur := aaCache[:cacheSize]
	aaNext := aaCache[cacheSize:]
	divotCur := divotCache[:cacheSize]
	divotNext := divotCache[cacheSize:]

	markerInit := geo.XStart.Whole() - 1

	fet := newFetcher(vid.mem, geo.Ctrl, geo.FrameBuffer, geo.Width)
	workers := int32(vid.dsp.Workers())

	cacheInit := false

	for j := int32(worker); j < geo.VRes; j += workers {
		curY := geo.YStart + Fixed(j)*geo.YAdd
		nextY := geo.YStart + Fixed(j+1)*geo.YAdd
		srcRow := curY.Whole()
		yFrac := curY.Weight()

		// the fetch bug: when vertical scaling keeps the source row for two
		// output lines (and for one line after it does), the hardware
		// mis-addresses the row below. the state is a function of the line
		// index alone, so any worker resolves it identically
		bug := uint32(0)
		if srcRow == nextY.Whole() {
			bug = 2
		} else if j > 0 && (geo.YStart+Fixed(j-1)*geo.YAdd).Whole() == srcRow {
			bug = 1
		}

		pixels := uint32(srcRow) * geo.Width
		nextPixels := pixels + geo.Width

		cacheMarker := markerInit
		cacheNextMarker := markerInit
		divotMarker := markerInit
		divotNextMarker := markerInit

		d := vid.prescale[int(geo.PrescalePtr)+int(geo.LineCount)*int(j):]

		noise := newDitherNoise(j)
		xStart := geo.XStart

		for i := int32(0); i < geo.HRes; i, xStart = i+1, xStart+geo.XAdd {
			prevLineX := xStart.Whole()
			lineX := prevLineX + 1
			nextLineX := prevLineX + 2
			farLineX := prevLineX + 3

			prevX := pixels + uint32(prevLineX) - 1
			curX := pixels + uint32(prevLineX)
			nextX := pixels + uint32(prevLineX) + 1
			farX := pixels + uint32(prevLineX) + 2

			scanPrevX := nextPixels + uint32(prevLineX) - 1
			scanX := nextPixels + uint32(prevLineX)
			scanNextX := nextPixels + uint32(prevLineX) + 1
			scanFarX := nextPixels + uint32(prevLineX) + 2

			if prevLineX > cacheMarker {
				fet.fetch(&aaCur[prevLineX], prevX, 0)
				fet.fetch(&aaCur[lineX], curX, 0)
				fet.fetch(&aaCur[nextLineX], nextX, 0)
				cacheMarker = nextLineX
			} else if lineX > cacheMarker {
				fet.fetch(&aaCur[lineX], curX, 0)
				fet.fetch(&aaCur[nextLineX], nextX, 0)
				cacheMarker = nextLineX
			} else if nextLineX > cacheMarker {
				fet.fetch(&aaCur[nextLineX], nextX, 0)
				cacheMarker = nextLineX
			}

			xFrac := xStart.Weight()
			lerping := geo.Ctrl.AA != AAReplicate && (xFrac != 0 || yFrac != 0)

			if lerping {
				if prevLineX > cacheNextMarker {
					fet.fetch(&aaNext[prevLineX], scanPrevX, bug)
					fet.fetch(&aaNext[lineX], scanX, bug)
					fet.fetch(&aaNext[nextLineX], scanNextX, bug)
					cacheNextMarker = nextLineX
				} else if lineX > cacheNextMarker {
					fet.fetch(&aaNext[lineX], scanX, bug)
					fet.fetch(&aaNext[nextLineX], scanNextX, bug)
					cacheNextMarker = nextLineX
				} else if nextLineX > cacheNextMarker {
					fet.fetch(&aaNext[nextLineX], scanNextX, bug)
					cacheNextMarker = nextLineX
				}
			}

			if geo.Ctrl.Divot {
				// divot needs one column of lookahead beyond the antialias
				// window
				if farLineX > cacheMarker {
					fet.fetch(&aaCur[farLineX], farX, 0)
					cacheMarker = farLineX
				}
				if lerping && farLineX > cacheNextMarker {
					fet.fetch(&aaNext[farLineX], scanFarX, bug)
					cacheNextMarker = farLineX
				}

				if lineX > divotMarker {
					divotFilter(&divotCur[lineX], aaCur[lineX], aaCur[prevLineX], aaCur[nextLineX])
					divotFilter(&divotCur[nextLineX], aaCur[nextLineX], aaCur[lineX], aaCur[farLineX])
					divotMarker = nextLineX
				} else if nextLineX > divotMarker {
					divotFilter(&divotCur[nextLineX], aaCur[nextLineX], aaCur[lineX], aaCur[farLineX])
					divotMarker = nextLineX
				}

				if lerping {
					if lineX > divotNextMarker {
						divotFilter(&divotNext[lineX], aaNext[lineX], aaNext[prevLineX], aaNext[nextLineX])
						divotFilter(&divotNext[nextLineX], aaNext[nextLineX], aaNext[lineX], aaNext[farLineX])
						divotNextMarker = nextLineX
					} else if nextLineX > divotNextMarker {
						divotFilter(&divotNext[nextLineX], aaNext[nextLineX], aaNext[lineX], aaNext[farLineX])
						divotNextMarker = nextLineX
					}
				}
			}

			var color, nextColor, scanColor, scanNextColor ccvg

			if geo.Ctrl.Divot {
				color = divotCur[lineX]
				if lerping {
					nextColor = divotCur[nextLineX]
					scanColor = divotNext[lineX]
					scanNextColor = divotNext[nextLineX]
				}
			} else {
				color = aaCur[lineX]
				if lerping {
					nextColor = aaCur[nextLineX]
					scanColor = aaNext[lineX]
					scanNextColor = aaNext[nextLineX]
				}
			}

			if lerping {
				vlerp(&color, scanColor, yFrac)
				vlerp(&nextColor, scanNextColor, yFrac)
				vlerp(&color, nextColor, xFrac)
			}

			r, g, b := color.r, color.g, color.b
			gammaFilter(&r, &g, &b, geo.Ctrl, &noise)

			if i >= geo.MinHPass && i < geo.MaxHPass {
				d[i] = uint32(r)<<16 | uint32(g)<<8 | uint32(b)
			} else {
				d[i] = 0
			}
		}

		// after the worker's first line at unity vertical scale the "next"
		// cache holds exactly what the following line wants as "current", so
		// the two rows trade places. the markers are reset at the top of
		// every line, which is what keeps the trade invisible in the output
		if !cacheInit && geo.YAdd == FixedOne && !vid.noCacheSwap {
			aaCur, aaNext = aaNext, aaCur
			if geo.Ctrl.Divot {
				divotCur, divotNext = divotNext, divotCur
			}
			cacheInit = true
		}
	}
}
