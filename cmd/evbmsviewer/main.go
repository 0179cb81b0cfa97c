// EV BMS viewer: desktop front end for the battery prediction backend.
//
// The window offers two mutually exclusive input modes (pick a vehicle from a
// list, or type one), submits the choice to the backend and shows the
// returned chart image plus an original-vs-predicted parameter table with
// summary cards. The keep-alive scheduler pings the backend in the
// background, backing off when the window sits untouched; any interaction
// restarts it.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/cmd/evbmsviewer/uihelpers"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/bmsclient"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/keepalive"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/report"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

const (
	modeSelect = "Choose from list"
	modeManual = "Type manually"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	client *bmsclient.Client
	sched  *keepalive.Scheduler

	mu       sync.Mutex
	inFlight bool
	rows     []report.Row
	resp     *types.PredictionResponse

	inputMode     string
	vehicleSelect *widget.Select
	vehicleEntry  *widget.Entry
	submitBtn     *widget.Button
	statusLbl     *widget.Label
	headerLbl     *widget.Label
	cards         []*widget.Label
	table         *widget.Table
	chartImg      *canvas.Image
}

func main() {
	var configPath, backendURL, logLevel string
	flag.StringVar(&configPath, "config", "", "Path to YAML config (defaults are compiled in)")
	flag.StringVar(&backendURL, "backend", "", "Backend origin override")
	flag.StringVar(&logLevel, "loglevel", "", "Log level: debug|info|warn|error")
	flag.Parse()

	cfg, err := types.LoadConfig(configPath)
	if err != nil {
		bmsclient.Errorf("config: %v", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	bmsclient.SetLogLevel(cfg.LogLevel)

	a := app.NewWithID("com.evbms.viewer")
	w := a.NewWindow("EV Battery Prediction")
	w.Resize(fyne.NewSize(1000, 760))

	client := bmsclient.New(cfg.BackendURL, cfg.Timeouts)
	state := &uiState{
		app:       a,
		window:    w,
		client:    client,
		sched:     keepalive.New(cfg.KeepAlive, client),
		inputMode: modeSelect,
	}

	buildUI(state, cfg)
	buildMenus(state)

	state.sched.OnStatusChange(func(st types.ServerStatus) {
		state.statusLbl.SetText("Server: " + st.String())
	})

	state.sched.Start()
	defer state.sched.Stop()
	w.ShowAndRun()
}

func buildUI(state *uiState, cfg types.Config) {
	options := make([]string, 0, len(types.VehicleTypes()))
	for _, v := range types.VehicleTypes() {
		options = append(options, string(v))
	}
	state.vehicleSelect = widget.NewSelect(options, func(string) { state.sched.Touch() })
	state.vehicleSelect.PlaceHolder = "Select vehicle type"

	state.vehicleEntry = widget.NewEntry()
	state.vehicleEntry.SetPlaceHolder("car, bike, scooter or bus")
	state.vehicleEntry.OnChanged = func(string) { state.sched.Touch() }
	state.vehicleEntry.Hide()

	modeRadio := widget.NewRadioGroup([]string{modeSelect, modeManual}, func(v string) {
		state.sched.Touch()
		state.inputMode = v
		if v == modeManual {
			state.vehicleSelect.Hide()
			state.vehicleEntry.Show()
		} else {
			state.vehicleEntry.Hide()
			state.vehicleSelect.Show()
		}
	})
	modeRadio.Horizontal = true
	modeRadio.SetSelected(modeSelect)

	state.submitBtn = widget.NewButton("Predict", func() { submit(state) })
	state.statusLbl = widget.NewLabel("Server: unknown")
	state.headerLbl = widget.NewLabel("")

	cardTitles := []string{"Charging Cycles", "Battery Temp", "Efficiency"}
	cardBoxes := make([]fyne.CanvasObject, 0, len(cardTitles))
	for _, title := range cardTitles {
		val := widget.NewLabel("--")
		val.TextStyle = fyne.TextStyle{Bold: true}
		state.cards = append(state.cards, val)
		cardBoxes = append(cardBoxes, container.NewVBox(widget.NewLabel(title), val))
	}

	cw, chh := uihelpers.ComputeChartDimensions(960)
	state.chartImg = canvas.NewImageFromImage(report.Blank(cw, chh))
	state.chartImg.FillMode = canvas.ImageFillContain
	state.chartImg.SetMinSize(fyne.NewSize(480, 320))

	state.table = widget.NewTable(
		func() (int, int) {
			state.mu.Lock()
			defer state.mu.Unlock()
			return len(state.rows) + 1, 5
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			state.mu.Lock()
			rows := state.rows
			state.mu.Unlock()
			if id.Row == 0 {
				headers := [5]string{"Parameter", "Original", "Predicted", "Difference", "Change (%)"}
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(headers[id.Col])
				return
			}
			rix := id.Row - 1
			if rix < 0 || rix >= len(rows) {
				lbl.SetText("")
				return
			}
			r := rows[rix]
			lbl.TextStyle = fyne.TextStyle{}
			switch id.Col {
			case 0:
				lbl.SetText(r.Parameter)
			case 1:
				lbl.SetText(fmt.Sprintf("%.4f", r.Original))
			case 2:
				lbl.SetText(fmt.Sprintf("%.4f", r.Predicted))
			case 3:
				lbl.SetText(r.Difference)
			case 4:
				txt := r.PercentChange
				if g := uihelpers.DirectionGlyph(r.Direction); g != "" {
					txt += " " + g
				}
				lbl.SetText(txt)
			}
		},
	)
	widths := uihelpers.ComputeTableColumnWidths(1000)
	for i, cw := range widths {
		if cw > 0 {
			state.table.SetColumnWidth(i, float32(cw))
		}
	}

	top := container.NewVBox(
		container.NewHBox(modeRadio, state.statusLbl),
		container.NewBorder(nil, nil, nil, state.submitBtn,
			container.NewStack(state.vehicleSelect, state.vehicleEntry)),
		state.headerLbl,
		container.NewGridWithColumns(len(cardBoxes), cardBoxes...),
	)
	split := container.NewVSplit(state.chartImg, state.table)
	split.SetOffset(0.55)
	state.window.SetContent(container.NewBorder(top, nil, nil, nil, split))

	bmsclient.Infof("viewer ready, backend %s", cfg.BackendURL)
}

// vehicleInput reads whichever input mode is active.
func vehicleInput(state *uiState) string {
	if state.inputMode == modeManual {
		return state.vehicleEntry.Text
	}
	return state.vehicleSelect.Selected
}

// submit validates the current input and runs the predict flow. Only one
// request is ever in flight; the button stays disabled for the duration.
func submit(state *uiState) {
	state.sched.Touch()

	vehicle, err := types.ParseVehicleType(vehicleInput(state))
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}

	state.mu.Lock()
	if state.inFlight {
		state.mu.Unlock()
		return
	}
	state.inFlight = true
	state.mu.Unlock()
	state.submitBtn.Disable()
	state.headerLbl.SetText(fmt.Sprintf("Predicting for %s…", vehicle))

	go func() {
		defer func() {
			state.mu.Lock()
			state.inFlight = false
			state.mu.Unlock()
			state.submitBtn.Enable()
		}()

		ctx := context.Background()
		if err := state.sched.EnsureAwake(ctx); err != nil {
			bmsclient.Errorf("wake sequence failed: %v", err)
			showErr(state, "The server is not responding. Please try again later.")
			return
		}

		resp, err := state.client.Predict(ctx, vehicle)
		if err != nil {
			state.sched.RecordFailure()
			showErr(state, bmsclient.UserMessage(err))
			return
		}
		state.sched.RecordSuccess()
		renderResult(state, resp)
	}()
}

// renderResult updates rows, cards and the chart image from one response.
// The table renders even when the chart image cannot be fetched; the chart
// pane degrades to a locally drawn comparison chart instead.
func renderResult(state *uiState, resp *types.PredictionResponse) {
	rows := report.BuildRows(resp.TableData)
	state.mu.Lock()
	state.rows = rows
	state.resp = resp
	state.mu.Unlock()

	header := fmt.Sprintf("Vehicle: %s", resp.VehicleType)
	if resp.EVModel != "" {
		header += fmt.Sprintf("  •  %s", resp.EVModel)
	}
	state.headerLbl.SetText(header)
	for i, card := range report.SummaryCards(rows) {
		if i < len(state.cards) {
			state.cards[i].SetText(card.Value)
		}
	}
	state.table.Refresh()

	cw, chh := uihelpers.ComputeChartDimensions(int(state.window.Canvas().Size().Width))
	var img image.Image
	data, err := state.client.FetchChart(context.Background(), resp.ChartURL)
	if err == nil {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		bmsclient.Warnf("chart image unavailable (%v), rendering locally", err)
		img = report.RenderComparisonChart(rows, cw, chh)
	}
	state.chartImg.Image = img
	state.chartImg.Refresh()
}

func showErr(state *uiState, msg string) {
	dialog.ShowError(errors.New(msg), state.window)
}

func buildMenus(state *uiState) {
	exportCSV := fyne.NewMenuItem("Export CSV…", func() {
		state.sched.Touch()
		rows := currentRows(state)
		if len(rows) == 0 {
			dialog.ShowInformation("Export", "No results to export yet.", state.window)
			return
		}
		fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer wc.Close()
			if werr := report.WriteCSV(wc, rows); werr != nil {
				bmsclient.Errorf("csv export: %v", werr)
			}
		}, state.window)
		fs.SetFileName("battery_prediction.csv")
		fs.Show()
	})
	exportChart := fyne.NewMenuItem("Export Chart PNG…", func() {
		state.sched.Touch()
		if state.chartImg == nil || state.chartImg.Image == nil {
			dialog.ShowInformation("Export", "No chart to export.", state.window)
			return
		}
		fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer wc.Close()
			_ = png.Encode(wc, state.chartImg.Image)
		}, state.window)
		fs.SetFileName("battery_prediction.png")
		fs.Show()
	})
	exportPDF := fyne.NewMenuItem("Export PDF…", func() {
		state.sched.Touch()
		rows := currentRows(state)
		if len(rows) == 0 {
			dialog.ShowInformation("Export", "No results to export yet.", state.window)
			return
		}
		info := report.PDFInfo{}
		state.mu.Lock()
		if state.resp != nil {
			info.VehicleType = titleCase(state.resp.VehicleType)
			info.EVModel = state.resp.EVModel
		}
		state.mu.Unlock()
		fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			defer wc.Close()
			if werr := report.WritePDF(wc, info, rows); werr != nil {
				bmsclient.Errorf("pdf export: %v", werr)
			}
		}, state.window)
		fs.SetFileName("battery_prediction.pdf")
		fs.Show()
	})
	fileMenu := fyne.NewMenu("File", exportCSV, exportChart, exportPDF)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func currentRows(state *uiState) []report.Row {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.rows
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
