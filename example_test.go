package stegomark_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/yyyoichi/stegomark"
	"github.com/yyyoichi/stegomark/payload"
)

func Example_watermark() {
	// Create a simple gradient image (64x64 pixels)
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			r := uint8(x * 255 / 64)
			g := uint8(y * 255 / 64)
			b := uint8((x + y) * 255 / 128)
			img.SetNRGBA(x, y, color.NRGBA{r, g, b, 255})
		}
	}

	rec := payload.Record{
		CreatorID: "0xC0FFEE",
		Timestamp: time.Unix(1700000000, 0).UTC(),
		Source:    payload.SourceAuthentic,
	}

	// Embed the watermark
	ctx := context.Background()
	marked, err := stegomark.Embed(ctx, img, rec)
	if err != nil {
		fmt.Printf("Error embedding watermark: %v\n", err)
		return
	}

	// Extract the watermark
	got, found, err := stegomark.Extract(ctx, marked)
	if err != nil {
		fmt.Printf("Error extracting watermark: %v\n", err)
		return
	}

	fmt.Println(found)
	fmt.Println(got.CreatorID)
	fmt.Println(got.Source)

	// Output:
	// true
	// 0xC0FFEE
	// authentic
}
