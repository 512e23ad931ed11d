package session

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/watermark-mcp/internal/imaging"
	"github.com/ironsheep/watermark-mcp/internal/watermark"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newSession(t *testing.T) *Session {
	t.Helper()
	return New(Options{
		Fonts:  watermark.NewFontResolver(nil, zerolog.Nop()),
		Logger: zerolog.Nop(),
	})
}

func loadThree(t *testing.T, s *Session) []string {
	t.Helper()
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a.png", 120, 80, color.NRGBA{R: 255, A: 255}),
		writePNG(t, dir, "b.png", 90, 90, color.NRGBA{G: 255, A: 255}),
		writePNG(t, dir, "c.png", 60, 100, color.NRGBA{B: 255, A: 255}),
	}
	infos, err := s.Load(paths)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	return paths
}

func current(t *testing.T, s *Session) *image.NRGBA {
	t.Helper()
	img, err := s.Current()
	require.NoError(t, err)
	return img
}

func TestNew_Defaults(t *testing.T) {
	s := newSession(t)
	st := s.Settings()

	assert.Equal(t, "", st.Text)
	assert.Equal(t, watermark.DefaultFont, st.Font)
	assert.Equal(t, watermark.DefaultFontSize, st.FontSize)
	assert.Equal(t, "#FFFFFF", st.Color)
	assert.Equal(t, watermark.BottomRight, st.Position)
	assert.Equal(t, "", st.Logo)
}

func TestNew_ExplicitBlackColor(t *testing.T) {
	black := imaging.RGBColor{}
	s := New(Options{Logger: zerolog.Nop(), Defaults: Defaults{Color: &black}})
	assert.Equal(t, "#000000", s.Settings().Color)
}

func TestEmptySession(t *testing.T) {
	s := newSession(t)

	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = s.Apply()
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = s.ApplyAll()
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = s.Save(filepath.Join(t.TempDir(), "out.png"), "")
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = s.Preview(100, 100, imaging.RGBColor{})
	assert.ErrorIs(t, err, ErrNoImages)

	st, ok := s.Undo()
	assert.False(t, ok)
	assert.False(t, st.Loaded)

	_, ok = s.Redo()
	assert.False(t, ok)

	assert.Equal(t, Status{}, s.Next())
	assert.Equal(t, Status{}, s.Prev())
}

func TestLoad_SelectsFirstWithBaseline(t *testing.T) {
	s := newSession(t)
	paths := loadThree(t, s)

	st := s.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, paths[0], st.Path)
	assert.Equal(t, 120, st.Width)
	assert.Equal(t, 80, st.Height)
	assert.Equal(t, 1, st.UndoDepth)
	assert.False(t, st.CanUndo)
	assert.False(t, st.CanRedo)
}

func TestLoad_EmptyListIsCancel(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	s.Next()

	infos, err := s.Load(nil)
	require.NoError(t, err)
	assert.Nil(t, infos)
	assert.Equal(t, 1, s.Status().Index)
	assert.Equal(t, 3, s.Status().Count)
}

func TestLoad_FailureKeepsPreviousSet(t *testing.T) {
	s := newSession(t)
	paths := loadThree(t, s)

	_, err := s.Load([]string{paths[0], "/nonexistent/image.png"})
	require.Error(t, err)

	st := s.Status()
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, paths[0], st.Path)
}

func TestLoad_ResetsHistory(t *testing.T) {
	s := newSession(t)
	paths := loadThree(t, s)
	s.SetText("first")

	_, err := s.Apply()
	require.NoError(t, err)
	_, err = s.Apply()
	require.NoError(t, err)
	require.Equal(t, 3, s.Status().UndoDepth)

	_, err = s.Load(paths)
	require.NoError(t, err)

	before := current(t, s)
	_, ok := s.Undo()
	assert.False(t, ok, "single undo after load must be a no-op")
	assert.Equal(t, before.Pix, current(t, s).Pix)
}

func TestLoad_RereadsOverwrittenFile(t *testing.T) {
	s := newSession(t)
	dir := t.TempDir()
	path := writePNG(t, dir, "out.png", 8, 8, color.NRGBA{R: 255, A: 255})

	_, err := s.Load([]string{path})
	require.NoError(t, err)

	writePNG(t, dir, "out.png", 8, 8, color.NRGBA{B: 255, A: 255})
	_, err = s.Load([]string{path})
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{B: 255, A: 255}, current(t, s).NRGBAAt(0, 0), "reload must read the file again")
	_, ok := s.Undo()
	assert.False(t, ok)
}

func TestLoadLogo_RereadsOverwrittenFile(t *testing.T) {
	s := newSession(t)
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "photo.png", 400, 200, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	logoPath := writePNG(t, dir, "logo.png", 40, 20, color.NRGBA{R: 255, A: 255})

	_, err := s.Load([]string{imgPath})
	require.NoError(t, err)
	_, err = s.LoadLogo(logoPath)
	require.NoError(t, err)

	writePNG(t, dir, "logo.png", 40, 20, color.NRGBA{G: 255, A: 255})
	_, err = s.LoadLogo(logoPath)
	require.NoError(t, err)

	require.NoError(t, s.SetPosition("top-left"))
	_, err = s.Apply()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, current(t, s).NRGBAAt(40, 25))
}

func TestLoad_ReleasesPreviousSet(t *testing.T) {
	s := newSession(t)
	first := loadThree(t, s)
	require.Equal(t, 3, s.cache.Len())

	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 10, 10, color.NRGBA{A: 255})
	_, err := s.LoadLogo(logo)
	require.NoError(t, err)

	next := writePNG(t, dir, "next.png", 10, 10, color.NRGBA{A: 255})
	_, err = s.Load([]string{first[0], next})
	require.NoError(t, err)
	assert.Equal(t, 3, s.cache.Len(), "two images plus the logo")

	s.ClearLogo()
	assert.Equal(t, 2, s.cache.Len())

	// A failed load keeps the current set and its cache entries.
	_, err = s.Load([]string{"/nonexistent/image.png"})
	require.Error(t, err)
	assert.Equal(t, 2, s.cache.Len())
}

func TestNavigation_IsCircular(t *testing.T) {
	s := newSession(t)
	paths := loadThree(t, s)

	assert.Equal(t, paths[1], s.Next().Path)
	assert.Equal(t, paths[2], s.Next().Path)
	assert.Equal(t, paths[0], s.Next().Path)

	assert.Equal(t, paths[2], s.Prev().Path)
	assert.Equal(t, paths[1], s.Prev().Path)
}

func TestApply_UndoRedo(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	original := current(t, s)

	s.SetText("A")
	require.NoError(t, s.SetPosition("top-left"))

	const n = 3
	var edits []*image.NRGBA
	for i := 0; i < n; i++ {
		st, err := s.Apply()
		require.NoError(t, err)
		assert.Equal(t, i+2, st.UndoDepth)
		edits = append(edits, current(t, s))
	}
	assert.NotEqual(t, original.Pix, edits[0].Pix)

	for i := 0; i < n; i++ {
		_, ok := s.Undo()
		require.True(t, ok)
	}
	assert.Equal(t, original.Pix, current(t, s).Pix)

	_, ok := s.Undo()
	assert.False(t, ok)

	st, ok := s.Redo()
	require.True(t, ok)
	assert.True(t, st.CanRedo)
	assert.Equal(t, edits[0].Pix, current(t, s).Pix)
}

func TestApply_AfterUndoDiscardsRedo(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	s.SetText("B")

	_, err := s.Apply()
	require.NoError(t, err)
	_, ok := s.Undo()
	require.True(t, ok)
	require.True(t, s.Status().CanRedo)

	st, err := s.Apply()
	require.NoError(t, err)
	assert.False(t, st.CanRedo)

	_, ok = s.Redo()
	assert.False(t, ok)
}

func TestApply_NoTextNoLogoRecordsUnchangedCopy(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	before := current(t, s)

	st, err := s.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, st.UndoDepth)
	assert.Equal(t, before.Pix, current(t, s).Pix)
}

func TestApplyAll_IndependentHistories(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	s.SetText("all")

	originals := make([]*image.NRGBA, 3)
	for i := range originals {
		originals[i] = current(t, s)
		s.Next()
	}

	st, err := s.ApplyAll()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Index, "last image stays selected")

	for i := 0; i < 3; i++ {
		s.Next()
		st := s.Status()
		assert.Equal(t, 2, st.UndoDepth, "image %d", st.Index)

		_, ok := s.Undo()
		require.True(t, ok)
		assert.Equal(t, originals[st.Index].Pix, current(t, s).Pix, "image %d", st.Index)
	}
}

func TestHistory_FollowsSelectedImage(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	s.SetText("one")

	_, err := s.Apply()
	require.NoError(t, err)

	s.Next()
	_, ok := s.Undo()
	assert.False(t, ok, "second image has no edits")

	s.Prev()
	_, ok = s.Undo()
	assert.True(t, ok)
}

func TestApply_WithLogo(t *testing.T) {
	s := newSession(t)
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "photo.png", 400, 200, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	logoPath := writePNG(t, dir, "logo.png", 40, 20, color.NRGBA{R: 255, A: 255})

	_, err := s.Load([]string{imgPath})
	require.NoError(t, err)

	info, err := s.LoadLogo(logoPath)
	require.NoError(t, err)
	assert.Equal(t, 40, info.Width)
	assert.Equal(t, logoPath, s.Settings().Logo)

	require.NoError(t, s.SetPosition("Top-Left"))
	_, err = s.Apply()
	require.NoError(t, err)

	// 15% of 400 = 60x30 at (10,10).
	img := current(t, s)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(40, 25))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(75, 25))

	s.ClearLogo()
	assert.Equal(t, "", s.Settings().Logo)
}

func TestLoadLogo_EmptyPathIsCancel(t *testing.T) {
	s := newSession(t)
	info, err := s.LoadLogo("")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestSettingsValidation(t *testing.T) {
	s := newSession(t)

	assert.Error(t, s.SetFontSize(9))
	assert.Error(t, s.SetFontSize(101))
	assert.NoError(t, s.SetFontSize(10))
	assert.NoError(t, s.SetFontSize(100))

	assert.Error(t, s.SetFont("  "))
	assert.NoError(t, s.SetFont("times.ttf"))

	err := s.SetPosition("middle")
	assert.True(t, errors.Is(err, watermark.ErrUnknownPosition))

	hex, err := s.SetColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, "#FF8000", hex)

	hex, err = s.SetColor("")
	require.NoError(t, err)
	assert.Equal(t, "#FF8000", hex, "cancelled pick keeps the color")

	_, err = s.SetColor("#zzzzzz")
	assert.Error(t, err)
	assert.Equal(t, "#FF8000", s.Settings().Color)

	st := s.Settings()
	assert.Equal(t, "times.ttf", st.Font)
	assert.Equal(t, 100, st.FontSize)
}

func TestSave(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)
	dir := t.TempDir()

	written, err := s.Save(filepath.Join(dir, "out"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.png"), written)

	f, err := os.Open(written)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())

	written, err = s.Save(filepath.Join(dir, "out.jpg"), "")
	require.NoError(t, err)
	jf, err := os.Open(written)
	require.NoError(t, err)
	defer jf.Close()
	_, err = jpeg.Decode(jf)
	require.NoError(t, err)

	written, err = s.Save("", "")
	require.NoError(t, err)
	assert.Equal(t, "", written, "empty path cancels")
}

func TestPreview(t *testing.T) {
	s := newSession(t)
	loadThree(t, s)

	res, err := s.Preview(240, 240, imaging.RGBColor{})
	require.NoError(t, err)
	assert.Equal(t, 240, res.Width)
	assert.Equal(t, 160, res.Height)

	_, err = s.Preview(0, 100, imaging.RGBColor{})
	assert.ErrorIs(t, err, imaging.ErrRegionNotReady)
}
