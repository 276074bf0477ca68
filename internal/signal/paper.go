package signal

import (
	"image"
)

const (
	paperBrightness   = 200
	paperMinAreaRatio = 0.05
	paperMinFill      = 0.85
	paperSampleWidth  = 160
)

// DetectPaper looks for a large bright rectangle-like blob: a connected region
// of near-white pixels covering more than 5% of the frame, with an aspect
// ratio in (0.5, 2) that fills most of its bounding box.
func DetectPaper(img image.Image) bool {
	if img == nil {
		return false
	}

	mask, w, h := brightMask(img)
	if w == 0 || h == 0 {
		return false
	}

	minArea := int(float64(w*h) * paperMinAreaRatio)
	seen := make([]bool, len(mask))
	queue := make([]int, 0, 256)

	for start := range mask {
		if !mask[start] || seen[start] {
			continue
		}

		minX, minY, maxX, maxY := w, h, -1, -1
		area := 0
		queue = append(queue[:0], start)
		seen[start] = true

		for len(queue) > 0 {
			p := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := p%w, p/w
			area++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				if n[0] < 0 || n[1] < 0 || n[0] >= w || n[1] >= h {
					continue
				}
				q := n[1]*w + n[0]
				if mask[q] && !seen[q] {
					seen[q] = true
					queue = append(queue, q)
				}
			}
		}

		if area <= minArea {
			continue
		}

		bw, bh := maxX-minX+1, maxY-minY+1
		aspect := float64(bw) / float64(bh)
		fill := float64(area) / float64(bw*bh)
		if aspect > 0.5 && aspect < 2.0 && fill >= paperMinFill {
			return true
		}
	}

	return false
}

// brightMask samples img down to at most paperSampleWidth columns and marks
// pixels brighter than paperBrightness.
func brightMask(img image.Image) ([]bool, int, int) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, 0, 0
	}

	step := 1
	if b.Dx() > paperSampleWidth {
		step = (b.Dx() + paperSampleWidth - 1) / paperSampleWidth
	}

	w := (b.Dx() + step - 1) / step
	h := (b.Dy() + step - 1) / step
	mask := make([]bool, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x*step, b.Min.Y+y*step).RGBA()
			lum := (299*r + 587*g + 114*bl) / 1000 >> 8
			mask[y*w+x] = lum > paperBrightness
		}
	}

	return mask, w, h
}
