package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// RawTour is the shape tours arrive in from external sources. The legacy
// data files ship two divergent variants: newer records carry a departures
// array with per-tier prices, older ones only a flat price plus a
// "3.590.000 ₫"-style display string. Prices may be numbers or strings.
// Normalize folds both variants into the canonical Tour; nothing outside
// this adapter deals with raw records.
type RawTour struct {
	ID            any                 `json:"id" yaml:"id"`
	Title         string              `json:"title" yaml:"title"`
	Name          string              `json:"name" yaml:"name"` // legacy alias for Title
	Location      string              `json:"location" yaml:"location"`
	Region        string              `json:"region" yaml:"region"`
	ImageURL      string              `json:"imageUrl" yaml:"imageUrl"`
	Image         string              `json:"image" yaml:"image"` // legacy alias
	Description   string              `json:"description" yaml:"description"`
	DurationLabel string              `json:"durationLabel" yaml:"durationLabel"`
	Duration      string              `json:"duration" yaml:"duration"` // legacy alias
	Rating        any                 `json:"rating" yaml:"rating"`
	Price         any                 `json:"price" yaml:"price"`
	PriceDisplay  string              `json:"priceDisplay" yaml:"priceDisplay"`
	IsFeatured    bool                `json:"isFeatured" yaml:"isFeatured"`
	IsBestseller  bool                `json:"isBestseller" yaml:"isBestseller"`
	SoldCount     any                 `json:"soldCount" yaml:"soldCount"`
	Itinerary     []ItineraryDay      `json:"itinerary" yaml:"itinerary"`
	Departures    []RawDepartureMonth `json:"departures" yaml:"departures"`
}

// RawDepartureMonth mirrors DepartureMonth with loosely typed prices.
type RawDepartureMonth struct {
	MonthLabel     string   `json:"monthLabel" yaml:"monthLabel"`
	DepartureDates []string `json:"departureDates" yaml:"departureDates"`
	Prices         struct {
		Adult            any `json:"adult" yaml:"adult"`
		Child            any `json:"child" yaml:"child"`
		Infant           any `json:"infant" yaml:"infant"`
		SingleSupplement any `json:"singleSupplement" yaml:"singleSupplement"`
	} `json:"prices" yaml:"prices"`
	Promotion  string `json:"promotion" yaml:"promotion"`
	FamilyNote string `json:"familyNote" yaml:"familyNote"`
	FlightDeal string `json:"flightDeal" yaml:"flightDeal"`
	Notes      string `json:"notes" yaml:"notes"`
}

// Normalize converts a raw external record into the canonical Tour.
func Normalize(raw RawTour) (Tour, error) {
	id, err := coerceID(raw.ID)
	if err != nil {
		return Tour{}, fmt.Errorf("normalize tour: %w", err)
	}

	title := raw.Title
	if title == "" {
		title = raw.Name
	}
	imageURL := raw.ImageURL
	if imageURL == "" {
		imageURL = raw.Image
	}
	duration := raw.DurationLabel
	if duration == "" {
		duration = raw.Duration
	}

	basePrice, err := coercePrice(raw.Price)
	if err != nil {
		return Tour{}, fmt.Errorf("normalize tour %s: price: %w", id, err)
	}
	rating, err := coerceFloat(raw.Rating)
	if err != nil {
		return Tour{}, fmt.Errorf("normalize tour %s: rating: %w", id, err)
	}
	soldRaw, err := coercePrice(raw.SoldCount)
	if err != nil {
		return Tour{}, fmt.Errorf("normalize tour %s: soldCount: %w", id, err)
	}

	t := Tour{
		ID:            id,
		Title:         title,
		Location:      raw.Location,
		Region:        raw.Region,
		ImageURL:      imageURL,
		Description:   raw.Description,
		DurationLabel: duration,
		Rating:        rating,
		BasePrice:     basePrice,
		IsFeatured:    raw.IsFeatured,
		IsBestseller:  raw.IsBestseller,
		SoldCount:     int(soldRaw),
		Itinerary:     raw.Itinerary,
	}

	for _, rd := range raw.Departures {
		d := DepartureMonth{
			MonthLabel:     rd.MonthLabel,
			DepartureDates: rd.DepartureDates,
			Promotion:      rd.Promotion,
			FamilyNote:     rd.FamilyNote,
			FlightDeal:     rd.FlightDeal,
			Notes:          rd.Notes,
		}
		if d.Prices.Adult, err = coercePrice(rd.Prices.Adult); err != nil {
			return Tour{}, fmt.Errorf("normalize tour %s month %s: adult: %w", id, rd.MonthLabel, err)
		}
		if d.Prices.Child, err = coercePrice(rd.Prices.Child); err != nil {
			return Tour{}, fmt.Errorf("normalize tour %s month %s: child: %w", id, rd.MonthLabel, err)
		}
		if d.Prices.Infant, err = coercePrice(rd.Prices.Infant); err != nil {
			return Tour{}, fmt.Errorf("normalize tour %s month %s: infant: %w", id, rd.MonthLabel, err)
		}
		if d.Prices.SingleSupplement, err = coercePrice(rd.Prices.SingleSupplement); err != nil {
			return Tour{}, fmt.Errorf("normalize tour %s month %s: singleSupplement: %w", id, rd.MonthLabel, err)
		}
		t.Departures = append(t.Departures, d)
	}

	// Legacy records without departures but with a flat price still get a
	// browsable entry; they just aren't bookable until departures arrive.
	return t, nil
}

// NormalizeAll maps Normalize over a batch, failing on the first bad record.
func NormalizeAll(raws []RawTour) ([]Tour, error) {
	tours := make([]Tour, 0, len(raws))
	for _, raw := range raws {
		t, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, nil
}

func coerceID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", fmt.Errorf("empty id")
		}
		return id, nil
	case int:
		return strconv.Itoa(id), nil
	case int64:
		return strconv.FormatInt(id, 10), nil
	case float64:
		return strconv.FormatInt(int64(id), 10), nil
	case nil:
		return "", fmt.Errorf("missing id")
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}

// coercePrice accepts numbers and display strings like "3.590.000 ₫" or
// "3,590,000 VND" and yields whole VND.
func coercePrice(v any) (int64, error) {
	switch p := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(p), nil
	case int64:
		return p, nil
	case uint64:
		return int64(p), nil
	case float64:
		return int64(p), nil
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, p)
		if cleaned == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable price %q", p)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported price type %T", v)
	}
}

func coerceFloat(v any) (float64, error) {
	switch f := v.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(f), nil
	case int64:
		return float64(f), nil
	case float64:
		return f, nil
	case string:
		if f == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable number %q", f)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}
