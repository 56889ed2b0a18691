package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

var widgetTitles = map[models.WidgetType]string{
	models.WidgetRestaurant: "Restaurants",
	models.WidgetAttraction: "Attractions",
	models.WidgetHotel:      "Hotel services",
}

func renderMessage(w io.Writer, msg models.Message) {
	fmt.Fprintf(w, "Simon: %s\n", msg.Content)
	for _, widget := range msg.Widgets {
		fmt.Fprintf(w, "\n  %s\n", widgetTitles[widget.Type()])
		renderEntities(w, widget.Payload.Items())
	}
}

func renderEntities(w io.Writer, entities []models.Entity) {
	for i, e := range entities {
		line := fmt.Sprintf("  %d. %s", i+1, e.Name)
		if class := e.Classification(); class != "" {
			line += " (" + class + ")"
		}
		var extras []string
		if e.Rating > 0 {
			extras = append(extras, fmt.Sprintf("%.1f stars", e.Rating))
		}
		if e.PriceLevel != "" {
			extras = append(extras, e.PriceLevel)
		}
		if e.Distance != "" {
			extras = append(extras, e.Distance)
		}
		if len(extras) > 0 {
			line += " - " + strings.Join(extras, ", ")
		}
		fmt.Fprintln(w, line)
		if e.Description != "" {
			fmt.Fprintf(w, "     %s\n", e.Description)
		}
		fmt.Fprintf(w, "     id: %s\n", e.ID)
	}
}

func renderEntity(w io.Writer, e models.Entity) {
	fmt.Fprintln(w, e.Name)
	fields := []struct{ label, value string }{
		{"Kind", string(e.Kind)},
		{"Class", e.Classification()},
		{"Price", e.PriceLevel},
		{"Distance", e.Distance},
		{"Address", e.Address},
		{"Hours", e.Hours},
		{"Phone", e.Phone},
		{"Website", e.Website},
		{"Must try", e.MustTry},
	}
	if e.Rating > 0 {
		fmt.Fprintf(w, "  %-9s %.1f\n", "Rating", e.Rating)
	}
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(w, "  %-9s %s\n", f.label, f.value)
		}
	}
	for _, text := range []string{e.Description, e.DetailedDescription, e.Experience} {
		if text != "" {
			fmt.Fprintf(w, "\n  %s\n", text)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
