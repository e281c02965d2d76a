package capture

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Mirror flips mat around its vertical axis in place.
func Mirror(mat *gocv.Mat) {
	if mat == nil || mat.Empty() {
		return
	}
	gocv.Flip(*mat, mat, 1)
}

var toRGBA = map[int]gocv.ColorConversionCode{
	1: gocv.ColorGrayToRGBA,
	3: gocv.ColorBGRToRGBA,
	4: gocv.ColorBGRAToRGBA,
}

// ToFrame copies a Mat into an RGBA Frame stamped with the current time.
func ToFrame(mat *gocv.Mat) (*Frame, error) {
	if mat == nil || mat.Empty() {
		return nil, ErrEmptyFrame
	}
	code, ok := toRGBA[mat.Channels()]
	if !ok {
		return nil, fmt.Errorf("unsupported channel count %d", mat.Channels())
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(*mat, &rgba, code)

	w, h := rgba.Cols(), rgba.Rows()
	img := &image.RGBA{Pix: rgba.ToBytes(), Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	return &Frame{Image: img, Timestamp: time.Now().UnixMilli(), Width: w, Height: h}, nil
}

// EncodeJPEG compresses f for the MJPEG stream.
func EncodeJPEG(f *Frame) ([]byte, error) {
	if f == nil || f.Image == nil {
		return nil, ErrEmptyFrame
	}

	mat, err := gocv.ImageToMatRGB(f.Image)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases C memory owned by buf.
	return append([]byte(nil), buf.GetBytes()...), nil
}
