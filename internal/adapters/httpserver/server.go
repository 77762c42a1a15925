package httpserver

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/shopfront/internal/adapters/charts/chartjs"
	"github.com/phenrril/shopfront/internal/adapters/charts/excel"
	"github.com/phenrril/shopfront/internal/adapters/storage/cookiekv"
	"github.com/phenrril/shopfront/internal/adapters/storage/scoped"
	"github.com/phenrril/shopfront/internal/domain"
	"github.com/phenrril/shopfront/internal/usecase"
)

const sessionCookie = "sfsid"

type Server struct {
	mux     *http.ServeMux
	tmpl    *template.Template
	feed    domain.StoreAPI
	reviews domain.ReviewPoster
	gateway domain.PurchaseGateway

	// backend == nil means the cart lives in a signed cookie on the client;
	// otherwise it lives in the backend under a per-session prefix.
	backend domain.Storage
	secret  []byte

	now func() time.Time

	mu        sync.Mutex
	checkouts map[string]*usecase.CheckoutUC
}

func New(t *template.Template, feed domain.StoreAPI, reviews domain.ReviewPoster, gateway domain.PurchaseGateway, backend domain.Storage, secret []byte) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		tmpl:      t,
		feed:      feed,
		reviews:   reviews,
		gateway:   gateway,
		backend:   backend,
		secret:    secret,
		now:       time.Now,
		checkouts: map[string]*usecase.CheckoutUC{},
	}
	s.routes()
	return Chain(s.mux, RequestID, Recovery, Logging)
}

func (s *Server) routes() {
	s.mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/item", s.handleItem)
	s.mux.HandleFunc("/reviews", s.handleReviewSubmit)

	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/cart/add", s.handleCartAdd)
	s.mux.HandleFunc("/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("/cart/checkout", s.handleCheckoutBegin)
	s.mux.HandleFunc("/cart/checkout/confirm", s.handleCheckoutConfirm)
	s.mux.HandleFunc("/cart/checkout/cancel", s.handleCheckoutCancel)

	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/dashboard/export", s.handleDashboardExport)
}

// session returns the visitor's session id, minting one on first contact.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	sid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: sid, Path: "/", MaxAge: 60 * 60 * 24 * 30, HttpOnly: true})
	return sid
}

func (s *Server) cartUC(w http.ResponseWriter, r *http.Request) *usecase.CartUC {
	if s.backend == nil {
		return &usecase.CartUC{Store: cookiekv.New(w, r, s.secret)}
	}
	return &usecase.CartUC{Store: scoped.Wrap(s.backend, s.session(w, r))}
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) *usecase.CheckoutUC {
	sid := s.session(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	uc, ok := s.checkouts[sid]
	if !ok {
		uc = &usecase.CheckoutUC{Gateway: s.gateway}
		s.checkouts[sid] = uc
	}
	return uc
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	catalog, err := s.feed.Products(r.Context())
	if err != nil {
		s.renderError(w, "The product list could not be loaded. Please try again.", err)
		return
	}
	byCat := catalog.ByCategory()
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	type section struct {
		Category string
		Products []domain.Product
	}
	sections := make([]section, 0, len(cats))
	for _, c := range cats {
		sections = append(sections, section{Category: c, Products: byCat[c]})
	}
	s.render(w, "home.html", map[string]any{"Sections": sections})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := domain.NormalizeID(r.URL.Query().Get("id"))
	catalog, err := s.feed.Products(r.Context())
	if err != nil {
		s.renderError(w, "The product could not be loaded. Please try again.", err)
		return
	}
	p, err := catalog.Find(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	all, err := s.feed.Reviews(r.Context())
	if err != nil {
		s.renderError(w, "Reviews could not be loaded. Please try again.", err)
		return
	}
	var reviews []domain.Review
	for _, rv := range all {
		if domain.NormalizeID(rv.ProductID) == id {
			reviews = append(reviews, rv)
		}
	}
	s.render(w, "item.html", map[string]any{
		"Product": p,
		"Reviews": reviews,
		"Notice":  r.URL.Query().Get("notice"),
		"CartErr": r.URL.Query().Get("err"),
		"InCart":  s.cartUC(w, r).Load(r.Context()).Quantity(id),
	})
}

func (s *Server) handleReviewSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	id := domain.NormalizeID(r.FormValue("id"))
	stars, _ := strconv.Atoi(r.FormValue("stars"))
	review := domain.Review{ProductID: id, Stars: stars, Comment: strings.TrimSpace(r.FormValue("comment"))}
	if err := s.reviews.PostReview(r.Context(), review); err != nil {
		log.Error().Err(err).Str("product", string(id)).Msg("review submit")
		s.redirectItem(w, r, id, "err", "Your review could not be submitted.")
		return
	}
	s.redirectItem(w, r, id, "notice", "Review submitted!")
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	cart := s.cartUC(w, r).Load(r.Context())
	catalog, err := s.feed.Products(r.Context())
	if err != nil {
		s.renderError(w, "Your cart could not be loaded. Please try again.", err)
		return
	}
	s.render(w, "cart.html", BuildCartView(cart, catalog))
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	id := domain.NormalizeID(r.FormValue("id"))
	qty, err := strconv.Atoi(r.FormValue("qty"))
	if err != nil {
		qty = 1
	}
	catalog, err := s.feed.Products(r.Context())
	if err != nil {
		s.renderError(w, "The product could not be loaded. Please try again.", err)
		return
	}
	p, err := catalog.Find(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	_, err = s.cartUC(w, r).Add(r.Context(), id, qty, p.Stock)
	if err != nil {
		var se *domain.StockExceededError
		switch {
		case errors.As(err, &se):
			msg := fmt.Sprintf("You already have %d item(s) in your cart. Only %d more can be added.", se.Current, se.Remaining)
			if se.Current == 0 {
				msg = fmt.Sprintf("Sorry, only %d item(s) in stock.", p.Stock)
			}
			s.redirectItem(w, r, id, "err", msg)
		case errors.Is(err, usecase.ErrInvalidQuantity):
			s.redirectItem(w, r, id, "err", "Quantity must be at least 1.")
		default:
			s.renderError(w, "Your cart could not be updated. Please try again.", err)
		}
		return
	}
	s.redirectItem(w, r, id, "notice", "Item added to your cart!")
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", http.StatusBadRequest)
		return
	}
	id := domain.NormalizeID(r.FormValue("id"))
	if _, err := s.cartUC(w, r).Remove(r.Context(), id); err != nil {
		s.renderError(w, "Your cart could not be updated. Please try again.", err)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) handleCheckoutBegin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cartUC := s.cartUC(w, r)
	cart, err := s.checkout(w, r).Begin(r.Context(), cartUC)
	if err != nil {
		http.Redirect(w, r, "/cart", http.StatusFound)
		return
	}
	catalog, err := s.feed.Products(r.Context())
	if err != nil {
		s.checkout(w, r).Cancel()
		s.renderError(w, "Checkout could not be started. Please try again.", err)
		return
	}
	s.render(w, "confirm.html", BuildCartView(cart, catalog))
}

func (s *Server) handleCheckoutConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cartUC := s.cartUC(w, r)
	checkout := s.checkout(w, r)
	err := checkout.Confirm(r.Context(), cartUC)
	if err != nil {
		if errors.Is(err, usecase.ErrNotConfirming) {
			http.Redirect(w, r, "/cart", http.StatusFound)
			return
		}
		// The cart is untouched on failure; show it alongside the reason.
		catalog, cerr := s.feed.Products(r.Context())
		if cerr != nil {
			s.renderError(w, "Checkout failed: "+checkout.FailureReason(), cerr)
			return
		}
		view := BuildCartView(cartUC.Load(r.Context()), catalog)
		s.render(w, "result.html", map[string]any{
			"Succeeded": false,
			"Reason":    checkout.FailureReason(),
			"Cart":      view,
		})
		return
	}
	s.render(w, "result.html", map[string]any{"Succeeded": true})
}

func (s *Server) handleCheckoutCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	s.checkout(w, r).Cancel()
	http.Redirect(w, r, "/cart", http.StatusFound)
}

func (s *Server) dashboard(r *http.Request, renderer domain.ChartRenderer) (*usecase.DashboardUC, error) {
	uc := &usecase.DashboardUC{API: s.feed, Charts: renderer, Now: s.now}
	if err := uc.Load(r.Context()); err != nil {
		return nil, err
	}
	if field := r.URL.Query().Get("sort"); field != "" {
		if err := uc.Resort(field, r.URL.Query().Get("dir") == "desc"); err != nil {
			return nil, err
		}
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if err := uc.SelectMonth(month); err != nil {
			// An out-of-window month keeps the default selection.
			log.Warn().Str("month", month).Msg("dashboard month ignored")
		}
	}
	return uc, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	renderer := chartjs.New()
	uc, err := s.dashboard(r, renderer)
	if err != nil {
		s.renderError(w, "The dashboard could not be loaded. Please try again.", err)
		return
	}
	bindings, err := renderer.Bindings()
	if err != nil {
		s.renderError(w, "The dashboard could not be drawn.", err)
		return
	}
	s.render(w, "dashboard.html", map[string]any{
		"Charts": bindings,
		"Months": uc.Months(),
		"Month":  uc.Month(),
		"Delta":  uc.Delta(),
		"Sort":   r.URL.Query().Get("sort"),
		"Dir":    r.URL.Query().Get("dir"),
	})
}

func (s *Server) handleDashboardExport(w http.ResponseWriter, r *http.Request) {
	renderer := excel.New()
	if _, err := s.dashboard(r, renderer); err != nil {
		s.renderError(w, "The dashboard export could not be built.", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	if err := renderer.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("dashboard export")
	}
}

func (s *Server) redirectItem(w http.ResponseWriter, r *http.Request, id domain.ID, key, msg string) {
	http.Redirect(w, r, "/item?id="+url.QueryEscape(string(id))+"&"+key+"="+url.QueryEscape(msg), http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("tpl", name).Msg("render")
		http.Error(w, "tpl", http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, msg string, err error) {
	log.Error().Err(err).Msg("page load")
	w.WriteHeader(http.StatusBadGateway)
	if terr := s.tmpl.ExecuteTemplate(w, "error.html", map[string]any{"Message": msg}); terr != nil {
		log.Error().Err(terr).Msg("render error page")
	}
}
