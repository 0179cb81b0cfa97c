// EV BMS CLI: one-shot client for the battery prediction backend.
//
// Validates the vehicle type locally, wakes a sleeping backend instance if
// needed, submits the prediction and prints the original-vs-predicted table.
// Optional flags export the table as CSV or PDF and save the chart image
// (backend PNG, or a locally rendered comparison chart when the backend
// image is unavailable).
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/bmsclient"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/keepalive"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/report"
	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/types"
)

func main() {
	var (
		configPath string
		backendURL string
		logLevel   string
		vehicle    string
		listTypes  bool
		noWake     bool
		localChart bool
		csvOut     string
		pdfOut     string
		chartOut   string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (defaults are compiled in)")
	flag.StringVar(&backendURL, "backend", "", "Backend origin override")
	flag.StringVar(&logLevel, "loglevel", "", "Log level: debug|info|warn|error")
	flag.StringVar(&vehicle, "vehicle", "", "Vehicle type: car|bike|scooter|bus")
	flag.BoolVar(&listTypes, "list", false, "List vehicle types the backend accepts and exit")
	flag.BoolVar(&noWake, "no-wake", false, "Skip the wake-up sequence before predicting")
	flag.BoolVar(&localChart, "local-chart", false, "Render the chart locally instead of fetching the backend PNG")
	flag.StringVar(&csvOut, "csv", "", "Write the result table as CSV to this path")
	flag.StringVar(&pdfOut, "pdf", "", "Write a PDF report to this path")
	flag.StringVar(&chartOut, "chart", "", "Save the chart image (PNG) to this path")
	flag.Parse()

	cfg, err := types.LoadConfig(configPath)
	if err != nil {
		fatalf("config: %v", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	bmsclient.SetLogLevel(cfg.LogLevel)

	client := bmsclient.New(cfg.BackendURL, cfg.Timeouts)
	ctx := context.Background()

	if listTypes {
		listVehicleTypes(ctx, client)
		return
	}

	vt, err := types.ParseVehicleType(vehicle)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: evbmscli -vehicle car [-csv out.csv] [-pdf out.pdf] [-chart out.png]")
		os.Exit(2)
	}

	// The scheduler is not started here; only its wake sequence is used so a
	// one-shot run leaves no timers behind.
	sched := keepalive.New(cfg.KeepAlive, client)
	if !noWake {
		if err := sched.EnsureAwake(ctx); err != nil {
			fatalf("%v", err)
		}
	}

	resp, err := client.Predict(ctx, vt)
	if err != nil {
		fatalf("%s", bmsclient.UserMessage(err))
	}

	rows := report.BuildRows(resp.TableData)
	fmt.Printf("Vehicle: %s", resp.VehicleType)
	if resp.EVModel != "" {
		fmt.Printf("  (%s)", resp.EVModel)
	}
	fmt.Println()
	for _, card := range report.SummaryCards(rows) {
		fmt.Printf("  %s: %s\n", card.Title, card.Value)
	}
	fmt.Println()
	if err := report.WriteText(os.Stdout, rows); err != nil {
		bmsclient.Errorf("print table: %v", err)
	}

	if csvOut != "" {
		if err := report.SaveCSV(csvOut, rows); err != nil {
			fatalf("csv export: %v", err)
		}
		bmsclient.Infof("wrote %s", csvOut)
	}
	if pdfOut != "" {
		info := report.PDFInfo{VehicleType: resp.VehicleType, EVModel: resp.EVModel}
		if err := report.SavePDF(pdfOut, info, rows); err != nil {
			fatalf("pdf export: %v", err)
		}
		bmsclient.Infof("wrote %s", pdfOut)
	}
	if chartOut != "" {
		if err := saveChart(ctx, client, resp, rows, chartOut, localChart); err != nil {
			fatalf("chart export: %v", err)
		}
		bmsclient.Infof("wrote %s", chartOut)
	}
}

// saveChart prefers the backend-rendered PNG and falls back to the local
// comparison chart when the download or decode fails.
func saveChart(ctx context.Context, client *bmsclient.Client, resp *types.PredictionResponse, rows []report.Row, path string, localOnly bool) error {
	var img image.Image
	if !localOnly {
		data, err := client.FetchChart(ctx, resp.ChartURL)
		if err == nil {
			img, _, err = image.Decode(bytes.NewReader(data))
		}
		if err != nil {
			bmsclient.Warnf("backend chart unavailable (%v), rendering locally", err)
		}
	}
	if img == nil {
		img = report.RenderComparisonChart(rows, 1200, 600)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func listVehicleTypes(ctx context.Context, client *bmsclient.Client) {
	vals, err := client.VehicleTypes(ctx)
	if err != nil {
		bmsclient.Warnf("backend unavailable (%v), showing built-in list", err)
		for _, v := range types.VehicleTypes() {
			fmt.Println(v)
		}
		return
	}
	for _, v := range vals {
		fmt.Println(v)
	}
}

func fatalf(format string, a ...interface{}) {
	bmsclient.Errorf(format, a...)
	os.Exit(1)
}
