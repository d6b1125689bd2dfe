package crawler

import (
	"strconv"
	"strings"

	"unegui-crawler/helpers"

	"github.com/PuerkitoBio/goquery"
)

// Attribute blocks on an ad page come in two shapes: a label span followed
// by a plain text span, or a label span followed by an anchor carrying the
// value-chars class. Which shape a field uses is data, not code.
type fieldKind int

const (
	kindText fieldKind = iota
	kindChars
)

type labelRule struct {
	label  string
	kind   fieldKind
	assign func(*Listing, string)
}

// labelRules maps the site's attribute labels to listing fields
var labelRules = []labelRule{
	{"Шал:", kindText, func(l *Listing, v string) { l.FloorMaterial = v }},
	{"Тагт:", kindText, func(l *Listing, v string) { l.Balcony = v }},
	{"Гараж:", kindText, func(l *Listing, v string) { l.Garage = v }},
	{"Цонх:", kindText, func(l *Listing, v string) { l.WindowType = v }},
	{"Хаалга:", kindText, func(l *Listing, v string) { l.DoorType = v }},
	{"Цонхны тоо:", kindChars, func(l *Listing, v string) { l.WindowCount = v }},
	{"Барилгынявц", kindText, func(l *Listing, v string) { l.ConstructionProgress = v }},
	{"Ашиглалтандорсонон:", kindText, func(l *Listing, v string) { l.CommissionedYear = v }},
	{"Барилгын давхар:", kindChars, func(l *Listing, v string) { l.FloorCount = v }},
	{"Талбай:", kindChars, func(l *Listing, v string) { l.AreaRaw = v }},
	{"Хэдэн давхарт:", kindChars, func(l *Listing, v string) { l.FloorLevel = v }},
	{"Лизингээравахболомж:", kindText, func(l *Listing, v string) { l.LeasingRaw = v }},
}

// findLabel locates the span whose trimmed text equals the label
func findLabel(doc *goquery.Document, label string) *goquery.Selection {
	return doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	}).First()
}

// charsValue reads the value-chars anchor following a label
func charsValue(label *goquery.Selection) string {
	chars := label.NextAllFiltered("a.value-chars").First()
	if chars.Length() == 0 {
		chars = label.Parent().Find("a.value-chars").First()
	}
	if chars.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(chars.Text())
}

// textValueAfter reads the span following a label, unless that span is
// itself a value-chars container. The guard keeps the two attribute shapes
// from colliding when their labels sit next to each other.
func textValueAfter(label *goquery.Selection) string {
	next := label.NextAllFiltered("span").First()
	if next.Length() == 0 {
		return ""
	}
	if next.Find("a.value-chars").Length() > 0 {
		return ""
	}
	return strings.TrimSpace(next.Text())
}

// ExtractListing pulls the full field set for one ad out of a parsed detail
// page. Fields that cannot be located resolve to the Unavailable sentinel;
// extraction itself never fails.
func ExtractListing(doc *goquery.Document, url, scrapedDate string) *Listing {
	l := &Listing{
		AdID:                 AdID(url),
		URL:                  url,
		Title:                Unavailable,
		Price:                Unavailable,
		RoomCountRaw:         Unavailable,
		AreaRaw:              Unavailable,
		FloorLevel:           Unavailable,
		FloorCount:           Unavailable,
		DistrictRaw:          Unavailable,
		LocationRaw:          Unavailable,
		Balcony:              Unavailable,
		Garage:               Unavailable,
		WindowType:           Unavailable,
		DoorType:             Unavailable,
		FloorMaterial:        Unavailable,
		WindowCount:          Unavailable,
		ConstructionProgress: Unavailable,
		CommissionedYear:     Unavailable,
		LeasingRaw:           Unavailable,
		Description:          Unavailable,
		PostedRaw:            Unavailable,
		ViewCountRaw:         Unavailable,
		ScrapedDate:          scrapedDate,
	}

	for _, rule := range labelRules {
		label := findLabel(doc, rule.label)
		if label.Length() == 0 {
			continue
		}
		var value string
		switch rule.kind {
		case kindChars:
			value = charsValue(label)
		default:
			value = textValueAfter(label)
		}
		if value != "" {
			rule.assign(l, value)
		}
	}

	extractAddress(doc, l)
	extractPrice(doc, l)

	if rooms := doc.Find("div.wrap.js-single-item__location span").Last(); rooms.Length() > 0 {
		if v := strings.TrimSpace(rooms.Text()); v != "" {
			l.RoomCountRaw = v
		}
	}

	if views := doc.Find("span.counter-views").First(); views.Length() > 0 {
		if v := helpers.StripSpaces(views.Text()); v != "" {
			l.ViewCountRaw = v
		}
	}

	if title := doc.Find("h1.title-announcement").First(); title.Length() > 0 {
		if v := helpers.CollapseWhitespace(title.Text()); v != "" {
			l.Title = v
		}
	}

	if desc := doc.Find("div.announcement-description").First(); desc.Length() > 0 {
		if v := helpers.CollapseWhitespace(desc.Text()); v != "" {
			l.Description = v
		}
	}

	if posted := doc.Find("span.date-meta").First(); posted.Length() > 0 {
		v := strings.TrimSpace(posted.Text())
		v = strings.TrimPrefix(v, "Нийтэлсэн: ")
		if v != "" {
			l.PostedRaw = v
		}
	}

	return l
}

// extractAddress splits the address on its em-dash into district and
// location. An address without the delimiter leaves both fields unavailable.
func extractAddress(doc *goquery.Document, l *Listing) {
	address := doc.Find("span[itemprop='address']").First()
	if address.Length() == 0 {
		return
	}
	text := address.Text()
	if !strings.Contains(text, "—") {
		return
	}
	parts := strings.SplitN(text, "—", 2)
	l.DistrictRaw = strings.TrimSpace(parts[0])
	l.LocationRaw = strings.TrimSpace(parts[1])
}

// extractPrice reads the price from the page's metadata attribute and
// normalizes numeric values to an integer string; non-numeric content is
// kept as fetched.
func extractPrice(doc *goquery.Document, l *Listing) {
	meta := doc.Find("meta[itemprop='price']").First()
	if meta.Length() == 0 {
		return
	}
	content, exists := meta.Attr("content")
	if !exists || content == "" {
		return
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(content), 64); err == nil {
		l.Price = strconv.FormatInt(int64(f), 10)
		return
	}
	l.Price = content
}
