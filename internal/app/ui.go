package app

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"yashubustudio/produktberater/catalog"
)

const (
	imageSize        = 120
	noImageNotice    = "📷 Kein Bild gefunden."
	noMatchesNotice  = "Keine passenden Produkte gefunden."
	loadErrorMessage = "Fehler beim Laden der Datei: %v"
)

type filterGroup struct {
	category catalog.Category
	check    *widget.CheckGroup
}

type uiState struct {
	service    *catalog.Service
	logger     *zap.Logger
	configPath string

	watchCtx context.Context
	watcher  *catalog.Watcher

	w          fyne.Window
	sidebar    *fyne.Container
	results    *fyne.Container
	status     *widget.Label
	statusBind binding.String
	log        *widget.Entry

	groups     []filterGroup
	lastResult catalog.Result
	loadErr    error
}

func buildUI(a fyne.App, svc *catalog.Service, logBind binding.String, logger *zap.Logger) *uiState {
	u := &uiState{service: svc, logger: logger}
	u.w = a.NewWindow("🐄 Eimü-Produktberater")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("Lade Produkte...")
	u.status = widget.NewLabelWithData(u.statusBind)

	u.log = widget.NewEntryWithData(logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("Protokoll")
	u.log.Disable()

	u.sidebar = container.NewVBox()
	u.results = container.NewVBox()

	reloadBtn := widget.NewButtonWithIcon("Neu laden", theme.ViewRefreshIcon(), func() {
		u.service.Invalidate()
		u.reload()
	})
	resetBtn := widget.NewButtonWithIcon("Filter zurücksetzen", theme.ContentClearIcon(), func() { u.resetFilters() })
	openBtn := widget.NewButtonWithIcon("Datei öffnen", theme.FolderOpenIcon(), func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, u.w)
				return
			}
			if rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			u.openDataFile(path)
		}, u.w)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".txt"}))
		fd.Show()
	})

	left := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("🔍 Filter", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			openBtn,
			container.NewGridWithColumns(2, reloadBtn, resetBtn),
			widget.NewSeparator(),
		),
		nil, nil, nil,
		container.NewVScroll(u.sidebar),
	)
	right := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("🎯 Passende Empfehlungen", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			u.status,
			widget.NewSeparator(),
		),
		nil, nil, nil,
		container.NewVScroll(u.results),
	)
	split := container.NewHSplit(left, right)
	split.Offset = 0.28

	logScroll := container.NewVScroll(u.log)
	logScroll.SetMinSize(fyne.NewSize(200, 100))
	root := container.NewVSplit(split, logScroll)
	root.Offset = 0.82

	u.w.SetContent(root)
	u.w.Resize(fyne.NewSize(1180, 760))
	return u
}

// reload fetches the catalog and rebuilds sidebar and results.
func (u *uiState) reload() {
	cat, err := u.service.Catalog(context.Background())
	u.applyCatalog(cat, err)
}

// openDataFile switches to another product sheet and stores it in the config file.
func (u *uiState) openDataFile(path string) {
	cfg := u.service.Config()
	cfg.DataPath = path
	u.service.UpdateConfig(cfg)
	if err := catalog.SaveConfig(u.configPath, u.service.Config()); err != nil {
		u.logger.Warn("save config", zap.Error(err))
	}
	if u.watchCtx != nil {
		u.stopWatch()
		u.startWatch(u.watchCtx)
	}
	u.logger.Info("data file selected", zap.String("path", path))
	u.reload()
}

// startWatch follows the configured data file until ctx ends.
func (u *uiState) startWatch(ctx context.Context) {
	u.watchCtx = ctx
	w, err := u.service.Watch(ctx, u.onFileChanged)
	if err != nil {
		u.logger.Warn("file watch disabled", zap.Error(err))
		return
	}
	u.watcher = w
}

func (u *uiState) stopWatch() {
	if u.watcher != nil {
		u.watcher.Stop()
		u.watcher = nil
	}
}

// onFileChanged runs on the watcher goroutine.
func (u *uiState) onFileChanged(cat *catalog.Catalog, err error) {
	fyne.Do(func() {
		u.applyCatalog(cat, err)
	})
}

func (u *uiState) applyCatalog(cat *catalog.Catalog, err error) {
	if err != nil {
		u.showLoadError(err)
		return
	}
	u.loadErr = nil
	u.rebuildSidebar(cat.Categories)
	u.applyFilter()
}

func (u *uiState) showLoadError(err error) {
	u.loadErr = err
	u.groups = nil
	u.lastResult = catalog.Result{}
	u.sidebar.Objects = nil
	u.sidebar.Refresh()
	msg := widget.NewLabel(fmt.Sprintf(loadErrorMessage, err))
	msg.Wrapping = fyne.TextWrapWord
	msg.Importance = widget.DangerImportance
	u.results.Objects = []fyne.CanvasObject{msg}
	u.results.Refresh()
	_ = u.statusBind.Set("Fehler")
	u.logger.Error("catalog unavailable", zap.Error(err))
	dialog.ShowError(err, u.w)
}

// rebuildSidebar creates one multi-select per category and keeps choices that still exist.
func (u *uiState) rebuildSidebar(categories catalog.CategoryIndex) {
	previous := u.selection()
	u.groups = make([]filterGroup, 0, len(categories))
	objects := make([]fyne.CanvasObject, 0, len(categories)*2)
	for _, c := range categories {
		check := widget.NewCheckGroup(c.Subcategories, nil)
		var keep []string
		for _, sub := range previous[c.Name] {
			if categories.Has(c.Name, sub) {
				keep = append(keep, sub)
			}
		}
		if len(keep) > 0 {
			check.SetSelected(keep)
		}
		check.OnChanged = func([]string) { u.applyFilter() }
		u.groups = append(u.groups, filterGroup{category: c, check: check})
		objects = append(objects,
			widget.NewLabelWithStyle(c.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			check,
		)
	}
	u.sidebar.Objects = objects
	u.sidebar.Refresh()
}

// selection collects the current choices; untouched categories are left out.
func (u *uiState) selection() catalog.Selection {
	sel := make(catalog.Selection)
	for _, g := range u.groups {
		if len(g.check.Selected) == 0 {
			continue
		}
		sel[g.category.Name] = append([]string(nil), g.check.Selected...)
	}
	return sel
}

func (u *uiState) resetFilters() {
	for _, g := range u.groups {
		g.check.Selected = nil
		g.check.Refresh()
	}
	u.applyFilter()
}

func (u *uiState) applyFilter() {
	if u.loadErr != nil {
		return
	}
	res, err := u.service.Query(context.Background(), u.selection())
	if err != nil {
		u.showLoadError(err)
		return
	}
	u.lastResult = res
	u.renderResults(res)
}

func (u *uiState) renderResults(res catalog.Result) {
	_ = u.statusBind.Set(fmt.Sprintf("%d von %d Produkten", len(res.Products), res.Total))
	if len(res.Products) == 0 {
		notice := widget.NewLabel(noMatchesNotice)
		notice.Importance = widget.WarningImportance
		u.results.Objects = []fyne.CanvasObject{notice}
		u.results.Refresh()
		return
	}
	imageDir := u.service.Config().ImageDir
	acc := widget.NewAccordion()
	acc.MultiOpen = true
	for _, p := range res.Products {
		card := catalog.NewCard(p, imageDir)
		body := widget.NewRichTextFromMarkdown(card.Markdown())
		body.Wrapping = fyne.TextWrapWord
		detail := container.NewBorder(nil, nil, productImage(card), nil, body)
		acc.Append(widget.NewAccordionItem(card.Title, detail))
	}
	u.results.Objects = []fyne.CanvasObject{acc}
	u.results.Refresh()
}

// productImage shows the picture or a notice when it cannot be decoded.
func productImage(card catalog.Card) fyne.CanvasObject {
	if !decodable(card.ImagePath) {
		notice := widget.NewLabel(noImageNotice)
		notice.Importance = widget.WarningImportance
		return notice
	}
	img := canvas.NewImageFromFile(card.ImagePath)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(imageSize, imageSize))
	caption := widget.NewLabelWithStyle(card.Name, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	return container.NewVBox(img, caption)
}

func decodable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err == nil
}
