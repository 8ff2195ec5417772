package pass

import "image"

// Layout holds the pixel geometry of a pass for one device class.
type Layout struct {
	Width       int
	Height      int
	FrameMargin int
	PhotoMargin int
	BottomSpace int
	NameFont    int
	DetailFont  int
	LineSpacing int
}

var (
	DesktopLayout = Layout{Width: 800, Height: 1000, FrameMargin: 50, PhotoMargin: 30, BottomSpace: 250, NameFont: 42, DetailFont: 30, LineSpacing: 55}
	MobileLayout  = Layout{Width: 600, Height: 750, FrameMargin: 30, PhotoMargin: 20, BottomSpace: 180, NameFont: 28, DetailFont: 18, LineSpacing: 40}
)

// LayoutFor picks the layout for a device class.
func LayoutFor(mobile bool) Layout {
	if mobile {
		return MobileLayout
	}
	return DesktopLayout
}

// Frame is the white polaroid border.
func (l Layout) Frame() image.Rectangle {
	return image.Rect(l.FrameMargin, l.FrameMargin, l.Width-l.FrameMargin, l.Height-l.FrameMargin)
}

// PhotoArea is the black region the photo is fitted into.
func (l Layout) PhotoArea() image.Rectangle {
	f := l.Frame()
	tl := image.Pt(f.Min.X+l.PhotoMargin, f.Min.Y+l.PhotoMargin)
	return image.Rect(tl.X, tl.Y, f.Max.X-l.PhotoMargin, tl.Y+f.Dy()-l.BottomSpace)
}

// FitRect scales a w×h source to fit inside area, preserving aspect ratio,
// centered.
func FitRect(w, h int, area image.Rectangle) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	aw, ah := area.Dx(), area.Dy()
	dw, dh := aw, aw*h/w
	if dh > ah {
		dh = ah
		dw = ah * w / h
	}
	x := area.Min.X + (aw-dw)/2
	y := area.Min.Y + (ah-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}
