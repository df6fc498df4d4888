//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/chart"
)

var eng *chart.Engine

func main() {
	eng = chart.NewEngine(800, 400)

	chartEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	chartEngine.Set("loadChart", js.FuncOf(loadChart))
	chartEngine.Set("loadSampleChart", js.FuncOf(loadSampleChart))
	chartEngine.Set("setLines", js.FuncOf(setLines))
	chartEngine.Set("setVisibleRange", js.FuncOf(setVisibleRange))
	chartEngine.Set("setVisibleLogicalRange", js.FuncOf(setVisibleLogicalRange))
	chartEngine.Set("fitContent", js.FuncOf(fitContent))
	chartEngine.Set("scrollToRealtime", js.FuncOf(scrollToRealtime))
	chartEngine.Set("setSize", js.FuncOf(setSize))
	chartEngine.Set("setSeriesVisible", js.FuncOf(setSeriesVisible))
	chartEngine.Set("setLayout", js.FuncOf(setLayout))

	// --- Queries (frontend ← engine) ---
	chartEngine.Set("render", js.FuncOf(render))
	chartEngine.Set("hitTest", js.FuncOf(hitTest))
	chartEngine.Set("getChart", js.FuncOf(getChart))
	chartEngine.Set("getVisibleRange", js.FuncOf(getVisibleRange))

	js.Global().Set("chartEngine", chartEngine)
	js.Global().Set("chartWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() any {
	return js.ValueOf(map[string]any{"ok": true})
}

func fail(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

// --- Command Handlers ---

func loadChart(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return fail("missing chart JSON")
	}
	if err := eng.LoadChart([]byte(args[0].String())); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func loadSampleChart(this js.Value, args []js.Value) any {
	chartID := "chart_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		chartID = args[0].String()
	}
	eng.LoadSampleChart(chartID)
	return ok()
}

func setLines(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return fail("missing lines JSON")
	}
	var ls []annotation.Line
	if err := json.Unmarshal([]byte(args[0].String()), &ls); err != nil {
		return fail(err.Error())
	}
	if err := eng.SetLines(ls); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func setVisibleRange(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail("missing range")
	}
	err := eng.SetVisibleTimeRange(annotation.TimeRange{
		From: annotation.Time(args[0].Int()),
		To:   annotation.Time(args[1].Int()),
	})
	if err != nil {
		return fail(err.Error())
	}
	return ok()
}

func setVisibleLogicalRange(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return fail("missing range")
	}
	eng.SetVisibleLogicalRange(args[0].Float(), args[1].Float())
	return ok()
}

func fitContent(this js.Value, args []js.Value) any {
	eng.FitContent()
	return nil
}

func scrollToRealtime(this js.Value, args []js.Value) any {
	eng.ScrollToRealtime()
	return nil
}

func setSize(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.SetSize(args[0].Int(), args[1].Int())
	return nil
}

func setSeriesVisible(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetSeriesVisible(args[0].Bool())
	return nil
}

func setLayout(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	var layout annotation.Layout
	if err := json.Unmarshal([]byte(args[0].String()), &layout); err != nil {
		return fail(err.Error())
	}
	eng.SetLayout(layout)
	return ok()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("null")
	}
	return js.ValueOf(eng.HitTestJSON(args[0].Float(), args[1].Float()))
}

func getChart(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.Chart())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getVisibleRange(this js.Value, args []js.Value) any {
	r, visible := eng.VisibleTimeRange()
	if !visible {
		return js.ValueOf("null")
	}
	data, _ := json.Marshal(r)
	return js.ValueOf(string(data))
}
