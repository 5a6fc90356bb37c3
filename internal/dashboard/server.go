// Package dashboard serves the interactive web UI: log a price, browse
// the data, view an item's trend, and compare basket cost by city. It is
// a thin consumer of pricedb and analytics; no aggregation logic lives
// here.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"pricebook/internal/analytics"
	"pricebook/internal/charts"
	"pricebook/internal/pricedb"
)

//go:embed templates/*
var templateFS embed.FS

// recentPricesLimit caps the browse view so huge databases stay snappy.
const recentPricesLimit = 500

// Server provides the HTTP wiring between the web views and the price
// database.
type Server struct {
	db        *pricedb.DB
	templates *template.Template
}

// New builds the server with parsed templates so each request only
// executes fast template execution.
func New(db *pricedb.DB) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.gohtml", "templates/message.gohtml")
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse templates: %w", err)
	}
	return &Server{db: db, templates: tmpl}, nil
}

// Handler returns the mux with all dashboard routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s.indexHandler())
	mux.Handle("/prices", s.logPriceHandler())
	mux.Handle("/trend", s.trendHandler())
	mux.Handle("/basket", s.basketHandler())
	return mux
}

// indexHandler renders the main page: the log-price form plus the item,
// store, and recent-price tables.
func (s *Server) indexHandler() http.Handler {
	type pageData struct {
		Items  []pricedb.Item
		Stores []pricedb.Store
		Prices []pricedb.PriceRow
		Msg    string
		Err    string
		Today  string
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		items, err := s.db.Items()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		stores, err := s.db.Stores()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		prices, err := s.db.Prices(recentPricesLimit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data := pageData{
			Items:  items,
			Stores: stores,
			Prices: prices,
			Msg:    r.URL.Query().Get("msg"),
			Err:    r.URL.Query().Get("err"),
			Today:  pricedb.Today(),
		}
		if err := s.templates.ExecuteTemplate(w, "index.gohtml", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// logPriceHandler accepts the log-price form: the item is upserted by
// name, the store by (name, city) when given, then the observation is
// appended.
func (s *Server) logPriceHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectErr(w, r, "invalid form submission")
			return
		}

		item := strings.TrimSpace(r.PostFormValue("item"))
		if item == "" {
			redirectErr(w, r, "item name is required")
			return
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("price")), 64)
		if err != nil || price < 0 {
			redirectErr(w, r, "price must be a non-negative number")
			return
		}
		quantity := 1.0
		if q := strings.TrimSpace(r.PostFormValue("quantity")); q != "" {
			quantity, err = strconv.ParseFloat(q, 64)
			if err != nil {
				redirectErr(w, r, "quantity must be a number")
				return
			}
		}

		itemID, err := s.db.GetOrCreateItem(item, r.PostFormValue("unit"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		storeID, err := s.db.GetOrCreateStore(r.PostFormValue("store"), r.PostFormValue("city"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := s.db.AddPrice(pricedb.Observation{
			ItemID:   itemID,
			StoreID:  storeID,
			Price:    price,
			Currency: r.PostFormValue("currency"),
			Quantity: quantity,
			Date:     r.PostFormValue("date"),
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/?msg="+template.URLQueryEscaper("Price logged"), http.StatusSeeOther)
	})
}

// trendHandler serves the per-city unit-price trend chart for one item.
func (s *Server) trendHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		item := strings.TrimSpace(r.URL.Query().Get("item"))
		if item == "" {
			redirectErr(w, r, "enter an item name to visualize")
			return
		}
		rows, err := s.db.PricesForItem(item)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ts := analytics.Trend(rows, item)
		if len(ts.Series) == 0 {
			s.message(w, fmt.Sprintf("No data for item %q yet.", item))
			return
		}
		if err := charts.WriteTrend(w, ts); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// basketHandler serves the basket-cost-by-city bar chart for a
// comma-separated item list.
func (s *Server) basketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var items []string
		for _, it := range strings.Split(r.URL.Query().Get("items"), ",") {
			if it = strings.TrimSpace(it); it != "" {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			redirectErr(w, r, "enter at least one basket item")
			return
		}
		rows, err := s.db.PricesForItems(items)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		baskets := analytics.Basket(rows, items)
		if len(baskets) == 0 {
			s.message(w, "No data for these items yet.")
			return
		}
		if err := charts.WriteBasket(w, baskets); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// message renders the informational "no data" page, which is distinct
// from an error response.
func (s *Server) message(w http.ResponseWriter, text string) {
	if err := s.templates.ExecuteTemplate(w, "message.gohtml", struct{ Text string }{Text: text}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func redirectErr(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?err="+template.URLQueryEscaper(msg), http.StatusSeeOther)
}
