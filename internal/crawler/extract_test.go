package crawler

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAdHTML = `<html><body>
<h1 class="title-announcement">
	2 bedroom apartment
	for sale
</h1>
<span itemprop="address">Chingeltei —  64th khoroolol, unit 5</span>
<meta itemprop="price" content="250000000.00">
<div class="wrap js-single-item__location"><span>Ulaanbaatar</span><span>2 rooms</span></div>
<ul>
	<li><span>Шал:</span><span>Паркет</span></li>
	<li><span>Тагт:</span><span>Тагттай</span></li>
	<li><span>Гараж:</span><span>Байхгүй</span></li>
	<li><span>Цонх:</span><span>Вакум</span></li>
	<li><span>Хаалга:</span><span>Бүргэд</span></li>
	<li><span>Цонхны тоо:</span><a class="value-chars">4</a></li>
	<li><span>Талбай:</span><a class="value-chars">60 м²</a></li>
	<li><span>Хэдэн давхарт:</span><a class="value-chars">5</a></li>
	<li><span>Барилгын давхар:</span><a class="value-chars">9</a></li>
	<li><span>Ашиглалтандорсонон:</span><span>2015</span></li>
	<li><span>Лизингээравахболомж:</span><span>Банкны лизингтэй</span></li>
</ul>
<span class="counter-views"> 1 234 </span>
<div class="announcement-description">Spacious apartment
near the school.</div>
<span class="date-meta">Нийтэлсэн: 2024-05-01 14:00</span>
</body></html>`

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractListingFullPage(t *testing.T) {
	doc := docFrom(t, sampleAdHTML)
	url := "https://www.unegui.mn/adv/1234_example/"

	l := ExtractListing(doc, url, "01/05/2024")

	assert.Equal(t, AdID(url), l.AdID)
	assert.Equal(t, url, l.URL)
	assert.Equal(t, "2 bedroom apartment for sale", l.Title)
	assert.Equal(t, "250000000", l.Price)
	assert.Equal(t, "2 rooms", l.RoomCountRaw)
	assert.Equal(t, "60 м²", l.AreaRaw)
	assert.Equal(t, "5", l.FloorLevel)
	assert.Equal(t, "9", l.FloorCount)
	assert.Equal(t, "Chingeltei", l.DistrictRaw)
	assert.Equal(t, "64th khoroolol, unit 5", l.LocationRaw)
	assert.Equal(t, "Тагттай", l.Balcony)
	assert.Equal(t, "Байхгүй", l.Garage)
	assert.Equal(t, "Вакум", l.WindowType)
	assert.Equal(t, "Бүргэд", l.DoorType)
	assert.Equal(t, "Паркет", l.FloorMaterial)
	assert.Equal(t, "4", l.WindowCount)
	assert.Equal(t, "2015", l.CommissionedYear)
	assert.Equal(t, "Банкны лизингтэй", l.LeasingRaw)
	assert.Equal(t, "Spacious apartment near the school.", l.Description)
	assert.Equal(t, "2024-05-01 14:00", l.PostedRaw)
	assert.Equal(t, "1234", l.ViewCountRaw)
	assert.Equal(t, "01/05/2024", l.ScrapedDate)
}

func TestExtractListingMissingFieldsYieldSentinel(t *testing.T) {
	doc := docFrom(t, "<html><body><p>nothing here</p></body></html>")
	url := "https://www.unegui.mn/adv/9_empty/"

	l := ExtractListing(doc, url, "01/05/2024")

	assert.Equal(t, AdID(url), l.AdID)
	assert.Equal(t, url, l.URL)
	assert.Equal(t, "01/05/2024", l.ScrapedDate)

	for i, value := range l.Row() {
		name := Header()[i]
		if name == "ad_id" || name == "url" || name == "scraped_date" {
			continue
		}
		assert.Equal(t, Unavailable, value, "column %s", name)
	}
}

func TestExtractAddress(t *testing.T) {
	// Address without the em-dash delimiter leaves both fields unavailable
	doc := docFrom(t, `<html><body><span itemprop="address">Chingeltei 64th khoroolol</span></body></html>`)
	l := ExtractListing(doc, "https://example.com/a", "01/05/2024")
	assert.Equal(t, Unavailable, l.DistrictRaw)
	assert.Equal(t, Unavailable, l.LocationRaw)

	doc = docFrom(t, `<html><body><span itemprop="address">Chingeltei —  64th khoroolol, unit 5</span></body></html>`)
	l = ExtractListing(doc, "https://example.com/a", "01/05/2024")
	assert.Equal(t, "Chingeltei", l.DistrictRaw)
	assert.Equal(t, "64th khoroolol, unit 5", l.LocationRaw)
}

func TestTextValueGuardAgainstCharsValue(t *testing.T) {
	// The span following the label holds a value-chars anchor, so the plain
	// text rule must not pick it up.
	doc := docFrom(t, `<html><body>
		<li><span>Тагт:</span><span><a class="value-chars">5</a></span></li>
	</body></html>`)

	l := ExtractListing(doc, "https://example.com/a", "01/05/2024")
	assert.Equal(t, Unavailable, l.Balcony)
}

func TestExtractPrice(t *testing.T) {
	doc := docFrom(t, `<html><body><meta itemprop="price" content="180000000.00"></body></html>`)
	l := ExtractListing(doc, "https://example.com/a", "01/05/2024")
	assert.Equal(t, "180000000", l.Price)

	// Non-numeric content is kept as fetched
	doc = docFrom(t, `<html><body><meta itemprop="price" content="Тохиролцоно"></body></html>`)
	l = ExtractListing(doc, "https://example.com/a", "01/05/2024")
	assert.Equal(t, "Тохиролцоно", l.Price)

	doc = docFrom(t, `<html><body></body></html>`)
	l = ExtractListing(doc, "https://example.com/a", "01/05/2024")
	assert.Equal(t, Unavailable, l.Price)
}

func TestAdIDDeterministic(t *testing.T) {
	url := "https://www.unegui.mn/adv/1234_example/"

	first := AdID(url)
	second := AdID(url)

	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
	assert.NotEqual(t, first, AdID(url+"x"))
}

func TestRowRoundTrip(t *testing.T) {
	doc := docFrom(t, sampleAdHTML)
	l := ExtractListing(doc, "https://www.unegui.mn/adv/1234_example/", "01/05/2024")

	rebuilt, err := FromRow(l.Row())
	assert.NoError(t, err)
	assert.Equal(t, *l, rebuilt)

	_, err = FromRow([]string{"too", "short"})
	assert.Error(t, err)
}
