package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage writes a solid PNG into a temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestOpen_PNG(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{10, 20, 30, 255})

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestOpen_BMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if err := bmp.Encode(f, createPatternImage(16, 8)); err != nil {
		t.Fatalf("failed to encode bmp: %v", err)
	}
	f.Close()

	img, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	r, g, b, _ := img.At(12, 6).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("bottom-right pixel: got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("got %v, want ErrFileNotFound", err)
	}
}

func TestOpen_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Open(path)
	if err == nil {
		t.Fatal("Open should fail for invalid image data")
	}
	if errors.Is(err, ErrFileNotFound) {
		t.Error("invalid data must not be reported as not found")
	}
}

func TestIsImagePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"dir/b.jpeg", true},
		{"c.jpg", true},
		{"d.bmp", true},
		{"e.webp", true},
		{"f.gif", true},
		{"g.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsImagePath(tt.path); got != tt.want {
			t.Errorf("IsImagePath(%q): got %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("got %v, want ErrFileNotFound", err)
	}
	if cache.Len() != 0 {
		t.Error("failed load must not be cached")
	}
}

func TestImageCache_ClearEvict(t *testing.T) {
	cache := NewImageCache()
	path1 := createTestImage(t, 10, 10, color.RGBA{255, 0, 0, 255})
	path2 := createTestImage(t, 10, 10, color.RGBA{0, 255, 0, 255})

	cache.Load(path1)
	cache.Load(path2)

	cache.Evict(path1)
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d entries, want 1", cache.Len())
	}

	cache.Evict("/not/cached.png")
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d entries, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 1280, 720, color.RGBA{255, 0, 0, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 1280 || info.Height != 720 {
		t.Errorf("dimensions: got %dx%d, want 1280x720", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.AspectRatio != 1.777 {
		t.Errorf("AspectRatio: got %v, want 1.777", info.AspectRatio)
	}
	if !info.WiderThan3x2 {
		t.Error("1280x720 should be wider than 3:2")
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes should be positive, got %d", info.FileSizeBytes)
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 150, 75, color.RGBA{0, 255, 0, 255})

	dims, err := GetDimensions(cache, imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 150 || dims.Height != 75 {
		t.Errorf("dimensions: got %dx%d, want 150x75", dims.Width, dims.Height)
	}
}

func TestProbe(t *testing.T) {
	path := createTestImage(t, 64, 48, color.White)

	cfg, format, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("dimensions: got %dx%d, want 64x48", cfg.Width, cfg.Height)
	}
	if format != "png" {
		t.Errorf("format: got %s, want png", format)
	}

	if _, _, err := Probe(filepath.Join(t.TempDir(), "gone.png")); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("missing file: got %v, want ErrFileNotFound", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	os.WriteFile(bad, []byte("garbage"), 0o644)
	if _, _, err := Probe(bad); err == nil {
		t.Error("Probe should fail on garbage")
	}
}
