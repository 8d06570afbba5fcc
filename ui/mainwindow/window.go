// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"detailist/internal/alignment"
	"detailist/internal/app"
	"detailist/internal/capture"
	"detailist/internal/compare"
	dimage "detailist/internal/image"
	"detailist/internal/version"
	"detailist/internal/viewport"
	"detailist/pkg/geometry"
	"detailist/ui/canvas"
	"detailist/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

const (
	// captureDelay gives the window manager time to hide the window.
	captureDelay = 250 * time.Millisecond
	ocrTimeout   = 30 * time.Second
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

const diffHint = "The difference appears here once both slots hold a capture."

const controlsHelp = `Capture the screen into the next free slot, or load an image file into a slot.

Scroll a capture by dragging it or with the arrow keys after clicking it.
Hold Ctrl or Shift with an arrow key to move ten pixels at a time.

The difference is recomputed whenever a capture moves or the comparison
settings change. Auto-center shifts slot 2 so that it lines up with slot 1.

Heatmap shows changed pixels in red; raise the strength to hide faint changes.
Opacity blends both captures; the strength sets how much of slot 2 shows.
Simple Diff shows the absolute per-channel difference.`

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	state   *app.State
	capture capture.Provider
	prefs   *prefs.Prefs
	log     zerolog.Logger

	panes     [3]*canvas.Pane // indexed by app.Target
	statusBar *widget.Label

	modeSelect    *widget.Select
	strength      *widget.Slider
	strengthValue *widget.Label
	widthEntry    *widget.Entry
	heightEntry   *widget.Entry
}

// New creates the main window around an engine session. Preferences from p
// are applied to the session before the window is shown.
func New(fyneApp fyne.App, state *app.State, provider capture.Provider, p *prefs.Prefs, log zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow(version.Name)

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		capture: provider,
		prefs:   p,
		log:     log.With().Str("component", "mainwindow").Logger(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restorePrefs()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	size := mw.state.Bounds().Window
	for _, target := range []app.Target{app.TargetSlot1, app.TargetSlot2, app.TargetDiff} {
		mw.panes[target] = canvas.NewPane(size.Width, size.Height, mw.hintFor(target), target != app.TargetDiff)
	}
	for _, slot := range app.Slots {
		slot := slot
		pane := mw.panes[app.TargetOf(slot)]
		pane.OnDrag = func(dx, dy int) {
			mw.moveViewport(slot, viewport.DragOp(dx, dy))
		}
		pane.OnNudge = func(d viewport.Direction, magnified bool) {
			mw.moveViewport(slot, viewport.NudgeOp(d, magnified))
		}
	}

	mw.statusBar = widget.NewLabel("Ready")

	panes := container.NewHBox(
		mw.slotColumn(app.Slot1),
		mw.slotColumn(app.Slot2),
		mw.diffColumn(),
	)

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		container.NewScroll(panes),        // center
	)

	mw.SetContent(content)
}

// createToolbar creates the capture, comparison and window size controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	captureBtn := widget.NewButtonWithIcon("Capture", theme.MediaRecordIcon(), mw.onCapture)
	clearLastBtn := widget.NewButtonWithIcon("Clear Last", theme.ContentUndoIcon(), mw.onClearLast)

	names := make([]string, len(compare.Modes))
	for i, m := range compare.Modes {
		names[i] = m.String()
	}
	mw.modeSelect = widget.NewSelect(names, mw.onModeChanged)

	mw.strength = widget.NewSlider(compare.MinStrength, compare.MaxStrength)
	mw.strength.Step = 1
	mw.strengthValue = widget.NewLabel("")
	mw.syncControls(mw.state.Config())
	mw.strength.OnChanged = mw.onStrengthChanged

	size := mw.state.Bounds().Window
	mw.widthEntry = widget.NewEntry()
	mw.widthEntry.SetText(strconv.Itoa(size.Width))
	mw.heightEntry = widget.NewEntry()
	mw.heightEntry.SetText(strconv.Itoa(size.Height))
	resizeBtn := widget.NewButton("Resize", mw.onResize)

	actions := container.NewHBox(
		captureBtn,
		clearLastBtn,
		widget.NewSeparator(),
		widget.NewLabel("Mode:"),
		mw.modeSelect,
		widget.NewSeparator(),
		widget.NewLabel("Window:"),
		container.NewGridWrap(fyne.NewSize(70, mw.widthEntry.MinSize().Height), mw.widthEntry),
		widget.NewLabel("x"),
		container.NewGridWrap(fyne.NewSize(70, mw.heightEntry.MinSize().Height), mw.heightEntry),
		resizeBtn,
	)

	strengthRow := container.NewBorder(
		nil, nil,
		widget.NewLabel("Strength:"),
		mw.strengthValue,
		mw.strength,
	)

	return container.NewVBox(actions, strengthRow)
}

// slotColumn creates a capture pane with its title and buttons.
func (mw *MainWindow) slotColumn(slot app.Slot) fyne.CanvasObject {
	target := app.TargetOf(slot)
	other := slot.Other()

	centerAs := "Center as Right"
	if other == app.Slot1 {
		centerAs = "Center as Left"
	}

	buttons := container.NewGridWithColumns(3,
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { mw.onSave(target) }),
		widget.NewButtonWithIcon("Load", theme.FileImageIcon(), func() { mw.onLoad(slot) }),
		widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() { mw.onClear(slot) }),
		widget.NewButton("Center", func() { mw.moveViewport(slot, viewport.ResetOp()) }),
		widget.NewButton(centerAs, func() { mw.onCenterAs(other, slot) }),
		widget.NewButtonWithIcon("OCR", theme.SearchIcon(), func() { mw.onRecognize(slot) }),
	)

	heading := widget.NewLabelWithStyle(title(slot.String()), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	return container.NewVBox(heading, mw.panes[target], buttons)
}

// diffColumn creates the difference pane with its title and buttons.
func (mw *MainWindow) diffColumn() fyne.CanvasObject {
	buttons := container.NewGridWithColumns(3,
		widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { mw.onSave(app.TargetDiff) }),
		widget.NewButtonWithIcon("Calculate", theme.ViewRefreshIcon(), mw.onCalculate),
		widget.NewButton("Auto-center", mw.onAutoAlign),
	)
	heading := widget.NewLabelWithStyle("Difference", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	return container.NewVBox(heading, mw.panes[app.TargetDiff], buttons)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	captureItem := fyne.NewMenuItem("Capture Screen", mw.onCapture)
	captureItem.Shortcut = captureShortcut
	clearLastItem := fyne.NewMenuItem("Clear Last Capture", mw.onClearLast)
	clearLastItem.Shortcut = clearLastShortcut

	fileMenu := fyne.NewMenu("File",
		captureItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Image into Slot 1...", func() { mw.onLoad(app.Slot1) }),
		fyne.NewMenuItem("Load Image into Slot 2...", func() { mw.onLoad(app.Slot2) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Slot 1...", func() { mw.onSave(app.TargetSlot1) }),
		fyne.NewMenuItem("Save Slot 2...", func() { mw.onSave(app.TargetSlot2) }),
		fyne.NewMenuItem("Save Difference...", func() { mw.onSave(app.TargetDiff) }),
	)

	calculateItem := fyne.NewMenuItem("Calculate Difference", mw.onCalculate)
	calculateItem.Shortcut = calculateShortcut
	alignItem := fyne.NewMenuItem("Auto-center Slot 2", mw.onAutoAlign)
	alignItem.Shortcut = alignShortcut

	editMenu := fyne.NewMenu("Edit",
		clearLastItem,
		fyne.NewMenuItem("Clear Slot 1", func() { mw.onClear(app.Slot1) }),
		fyne.NewMenuItem("Clear Slot 2", func() { mw.onClear(app.Slot2) }),
		fyne.NewMenuItemSeparator(),
		calculateItem,
		alignItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Controls", mw.onControls),
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

var (
	captureShortcut   = &desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	clearLastShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyX, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	calculateShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyD, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
	alignShortcut     = &desktop.CustomShortcut{KeyName: fyne.KeyA, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}
)

// setupShortcuts binds the window-wide shortcuts. A focused pane keeps the
// arrow-key shortcuts for itself.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	c.AddShortcut(captureShortcut, func(fyne.Shortcut) { mw.onCapture() })
	c.AddShortcut(clearLastShortcut, func(fyne.Shortcut) { mw.onClearLast() })
	c.AddShortcut(calculateShortcut, func(fyne.Shortcut) { mw.onCalculate() })
	c.AddShortcut(alignShortcut, func(fyne.Shortcut) { mw.onAutoAlign() })
}

// setupEventHandlers registers for session events. Handlers may run on the
// debounce timer goroutine.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventCaptured, func(data interface{}) {
		if slot, ok := data.(app.Slot); ok {
			mw.refreshPane(app.TargetOf(slot))
			mw.updateStatus(fmt.Sprintf("Captured into %s", slot))
		}
	})

	mw.state.On(app.EventCleared, func(data interface{}) {
		if slot, ok := data.(app.Slot); ok {
			mw.refreshPane(app.TargetOf(slot))
			mw.refreshPane(app.TargetDiff)
			mw.updateStatus(fmt.Sprintf("Cleared %s", slot))
		}
	})

	mw.state.On(app.EventViewportMoved, func(data interface{}) {
		if slot, ok := data.(app.Slot); ok {
			mw.refreshPane(app.TargetOf(slot))
		}
	})

	mw.state.On(app.EventConfigChanged, func(data interface{}) {
		if cfg, ok := data.(compare.Config); ok {
			mw.strengthValue.SetText(strconv.Itoa(cfg.Strength))
			mw.prefs.SetString(prefs.KeyCompareMode, cfg.Mode.String())
			mw.prefs.SetInt(prefs.KeyCompareStrength, cfg.Strength)
		}
	})

	mw.state.On(app.EventDiffComputed, func(data interface{}) {
		if res, ok := data.(app.DiffResult); ok {
			mw.panes[app.TargetDiff].SetImage(res.Buffer.ToImage())
			mw.updateStatus(res.Summary.String())
		}
	})

	mw.state.On(app.EventAligned, func(data interface{}) {
		if res, ok := data.(alignment.Result); ok {
			mw.updateStatus(fmt.Sprintf("Auto-center moved slot 2 by (%d, %d)", -res.DX, -res.DY))
		}
	})

	mw.state.On(app.EventResized, func(data interface{}) {
		size, ok := data.(geometry.SizeInt)
		if !ok {
			return
		}
		for target, pane := range mw.panes {
			pane.SetViewSize(size.Width, size.Height)
			mw.refreshPane(app.Target(target))
		}
		mw.widthEntry.SetText(strconv.Itoa(size.Width))
		mw.heightEntry.SetText(strconv.Itoa(size.Height))
		mw.prefs.SetInt(prefs.KeyWindowWidth, size.Width)
		mw.prefs.SetInt(prefs.KeyWindowHeight, size.Height)
		mw.updateStatus(fmt.Sprintf("Window resized to %dx%d", size.Width, size.Height))
	})
}

// restorePrefs applies the saved comparison settings and window size.
func (mw *MainWindow) restorePrefs() {
	cfg := mw.state.Config()
	if m, err := compare.ParseMode(mw.prefs.String(prefs.KeyCompareMode, cfg.Mode.String())); err == nil {
		cfg.Mode = m
	}
	cfg.Strength = mw.prefs.Int(prefs.KeyCompareStrength, cfg.Strength)
	if err := mw.state.SetConfig(cfg); err != nil {
		mw.log.Warn().Err(err).Msg("ignoring saved comparison settings")
	}
	mw.syncControls(mw.state.Config())

	size := mw.state.Bounds().Window
	w := mw.prefs.Int(prefs.KeyWindowWidth, size.Width)
	h := mw.prefs.Int(prefs.KeyWindowHeight, size.Height)
	if err := mw.state.Resize(w, h); err != nil {
		mw.log.Warn().Err(err).Msg("ignoring saved window size")
	}
}

// syncControls shows cfg in the mode and strength widgets.
func (mw *MainWindow) syncControls(cfg compare.Config) {
	mw.modeSelect.SetSelected(cfg.Mode.String())
	mw.strength.SetValue(float64(cfg.Strength))
	mw.strengthValue.SetText(strconv.Itoa(cfg.Strength))
}

// refreshPane redraws a pane from the session, or shows its hint when the
// target has nothing to show.
func (mw *MainWindow) refreshPane(target app.Target) {
	buf, err := mw.state.Visible(target)
	if err != nil {
		mw.panes[target].ShowHint(mw.hintFor(target))
		return
	}
	mw.panes[target].SetImage(buf.ToImage())
}

func (mw *MainWindow) hintFor(target app.Target) string {
	if target == app.TargetDiff {
		return diffHint
	}
	return fmt.Sprintf("%s is empty.\n\nCapture the screen (Ctrl+Shift+C) or load an image file.\n"+
		"Drag the capture or click it and use the arrow keys to scroll.", title(target.String()))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// showError reports err in a dialog, or in the status bar for a busy engine.
func (mw *MainWindow) showError(err error) {
	if errors.Is(err, app.ErrInProgress) {
		mw.updateStatus("Still working on the previous request")
		return
	}
	mw.log.Debug().Err(err).Msg("action failed")
	dialog.ShowError(err, mw.Window)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory, "")
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
}

// Action handlers

func (mw *MainWindow) moveViewport(slot app.Slot, op viewport.Op) {
	if err := mw.state.MoveViewport(slot, op); err != nil && !errors.Is(err, app.ErrSlotEmpty) {
		mw.showError(err)
	}
}

func (mw *MainWindow) onCapture() {
	if mw.state.Ready() {
		mw.updateStatus("Both slots hold a capture. Clear one first.")
		return
	}

	mw.Hide()
	go func() {
		time.Sleep(captureDelay)
		buf, err := mw.capture.CaptureFull()
		mw.Show()
		if err != nil {
			mw.showError(fmt.Errorf("capture screen: %w", err))
			return
		}
		if _, err := mw.state.Capture(buf); err != nil {
			mw.showError(err)
		}
	}()
}

func (mw *MainWindow) onClearLast() {
	if _, err := mw.state.ClearLast(); err != nil {
		if errors.Is(err, app.ErrSlotEmpty) {
			mw.updateStatus("Nothing to clear")
			return
		}
		mw.showError(err)
	}
}

func (mw *MainWindow) onClear(slot app.Slot) {
	if err := mw.state.Clear(slot); err != nil {
		if errors.Is(err, app.ErrSlotEmpty) {
			mw.updateStatus(fmt.Sprintf("%s is already empty", title(slot.String())))
			return
		}
		mw.showError(err)
	}
}

func (mw *MainWindow) onCenterAs(from, to app.Slot) {
	if err := mw.state.CenterAs(from, to); err != nil {
		if errors.Is(err, app.ErrSlotEmpty) {
			mw.updateStatus("Both slots need a capture to center one as the other")
			return
		}
		mw.showError(err)
	}
}

func (mw *MainWindow) onCalculate() {
	if err := mw.state.RecomputeDiff(); err != nil {
		if errors.Is(err, app.ErrSlotEmpty) {
			mw.updateStatus("Capture both slots first")
			return
		}
		mw.showError(err)
	}
}

func (mw *MainWindow) onAutoAlign() {
	if _, err := mw.state.AutoAlign(); err != nil {
		if errors.Is(err, app.ErrAlignmentUnavailable) {
			mw.updateStatus("Capture both slots before auto-centering")
			return
		}
		mw.showError(err)
	}
}

func (mw *MainWindow) onModeChanged(name string) {
	m, err := compare.ParseMode(name)
	if err != nil {
		return
	}
	cfg := mw.state.Config()
	cfg.Mode = m
	if err := mw.state.SetConfig(cfg); err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) onStrengthChanged(v float64) {
	cfg := mw.state.Config()
	cfg.Strength = int(v)
	mw.strengthValue.SetText(strconv.Itoa(cfg.Strength))
	if err := mw.state.SetConfig(cfg); err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) onResize() {
	w, h, err := parseWindowSize(mw.widthEntry.Text, mw.heightEntry.Text)
	if err != nil {
		mw.showError(err)
		return
	}
	if err := mw.state.Resize(w, h); err != nil {
		mw.showError(err)
	}
}

func (mw *MainWindow) onSave(target app.Target) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		mw.saveLastDir(writer.URI().Path())
		if err := mw.state.ExportTo(writer, target); err != nil {
			mw.showError(fmt.Errorf("save %s: %w", target, err))
			return
		}
		mw.updateStatus(fmt.Sprintf("Saved %s to %s", target, writer.URI().Path()))
	}, mw.Window)
	fd.SetFileName(strings.ReplaceAll(target.String(), " ", "") + ".png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onLoad(slot app.Slot) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		buf, err := dimage.Decode(reader)
		if err != nil {
			mw.showError(fmt.Errorf("load %s: %w", filepath.Base(path), err))
			return
		}
		if err := mw.state.CaptureInto(slot, buf); err != nil {
			mw.showError(err)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onRecognize(slot app.Slot) {
	mw.updateStatus(fmt.Sprintf("Recognizing text in %s...", slot))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ocrTimeout)
		defer cancel()

		text, err := mw.state.RecognizeText(ctx, slot)
		switch {
		case errors.Is(err, app.ErrNoRecognizer):
			mw.updateStatus("Text recognition is not available")
			return
		case errors.Is(err, app.ErrSlotEmpty):
			mw.updateStatus(fmt.Sprintf("%s is empty", title(slot.String())))
			return
		case err != nil:
			mw.showError(fmt.Errorf("recognize text: %w", err))
			return
		}
		mw.updateStatus(fmt.Sprintf("Recognized %d characters", len(text)))
		mw.showText(fmt.Sprintf("Text in %s", slot), text)
	}()
}

// showText displays recognized text with a button to copy it.
func (mw *MainWindow) showText(title, text string) {
	if text == "" {
		text = "(no text found)"
	}
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.Wrapping = fyne.TextWrapWord
	entry.SetMinRowsVisible(10)

	copyBtn := widget.NewButtonWithIcon("Copy", theme.ContentCopyIcon(), func() {
		mw.Clipboard().SetContent(entry.Text)
	})
	dialog.ShowCustom(title, "Close", container.NewBorder(nil, copyBtn, nil, nil, entry), mw.Window)
}

func (mw *MainWindow) onControls() {
	dialog.ShowInformation("Controls", controlsHelp, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+version.Name,
		fmt.Sprintf("%s\n\n"+
			"Captures two screenshots and shows where they differ.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.String(), version.BuildTime, version.GitCommit),
		mw.Window)
}

// title upper-cases the first letter of s.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// parseWindowSize reads the window size entries, which must hold positive
// integers.
func parseWindowSize(width, height string) (int, int, error) {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("window width %q is not a positive integer", width)
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("window height %q is not a positive integer", height)
	}
	return w, h, nil
}
