package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundcheck/internal/catalog"
	"github.com/desertthunder/soundcheck/internal/server"
	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/session"
	"github.com/desertthunder/soundcheck/internal/shared"
)

// SearchField is the form field holding the search query.
const SearchField = "search_term"

// DispatcherOpts contains optional dispatcher settings.
type DispatcherOpts struct {
	Logger      *log.Logger
	SearchLimit int               // tracks per search, defaults to services.DefaultSearchLimit
	SearchGuard server.Middleware // wraps POST search routes, e.g. server.RateLimit
}

// Dispatcher orchestrates auth, API, catalog and session collaborators per request.
type Dispatcher struct {
	auth        services.Authorizer
	api         services.MusicAPI
	catalog     catalog.Store
	sessions    *session.Manager
	renderer    *Renderer
	logger      *log.Logger
	searchLimit int
	searchGuard server.Middleware
}

// NewDispatcher wires the route handlers to their collaborators.
func NewDispatcher(
	auth services.Authorizer,
	api services.MusicAPI,
	store catalog.Store,
	sessions *session.Manager,
	renderer *Renderer,
	opts DispatcherOpts,
) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = services.DefaultSearchLimit
	}
	if opts.SearchGuard == nil {
		opts.SearchGuard = func(next http.Handler) http.Handler { return next }
	}

	return &Dispatcher{
		auth:        auth,
		api:         api,
		catalog:     store,
		sessions:    sessions,
		renderer:    renderer,
		logger:      shared.WithLogger(opts.Logger, "component", "web"),
		searchLimit: opts.SearchLimit,
		searchGuard: opts.SearchGuard,
	}
}

// Register adds every route to r.
func (d *Dispatcher) Register(r server.Router) {
	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(d.Index))
	r.Handle(http.MethodGet, "/album/{id}/content", http.HandlerFunc(d.AlbumContent))
	r.Handle(http.MethodGet, "/login", http.HandlerFunc(d.Login))
	r.Handle(http.MethodGet, "/login_page", http.HandlerFunc(d.LoginPage))
	r.Handle(http.MethodGet, "/callback", http.HandlerFunc(d.Callback))
	r.Handle(http.MethodGet, "/profile", http.HandlerFunc(d.Profile))
	r.Handle(http.MethodGet, "/logout", http.HandlerFunc(d.Logout))

	search := http.HandlerFunc(d.Search)
	for _, path := range []string{"/search", "/page/search"} {
		r.Handle(http.MethodGet, path, search)
		r.Handle(http.MethodPost, path, d.searchGuard(search))
	}

	r.Handle(http.MethodGet, "/page/{name}", http.HandlerFunc(d.Page))
	r.Handle(http.MethodGet, "/playlist/{id}", http.HandlerFunc(d.Playlist))
	r.Handler(NewAssets())
}

type homeData struct {
	Albums     []catalog.Album
	Songs      []catalog.Song
	NowPlaying *catalog.Song
}

type albumData struct {
	Album catalog.Album
	Songs []catalog.Song
}

type profileData struct {
	Profile services.Profile
}

type searchData struct {
	Query    string
	Searched bool
	Results  []services.TrackResult
}

type playlistData struct {
	Playlist catalog.Playlist
}

// Index renders the home page, or its content fragment for marked requests.
func (d *Dispatcher) Index(w http.ResponseWriter, r *http.Request) {
	data, err := d.home()
	if err != nil {
		d.fail(w, r, err)
		return
	}
	d.render(w, r, View{Shape: Negotiate(r), Full: "index", Fragment: "home", Data: data})
}

func (d *Dispatcher) home() (homeData, error) {
	albums, err := d.catalog.Albums()
	if err != nil {
		return homeData{}, err
	}
	songs, err := d.catalog.Songs()
	if err != nil {
		return homeData{}, err
	}

	data := homeData{Albums: albums, Songs: songs}
	if len(songs) > 0 {
		data.NowPlaying = &songs[0]
	}
	return data, nil
}

// AlbumContent renders one album with its songs.
func (d *Dispatcher) AlbumContent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	album, err := d.catalog.Album(id)
	if err != nil {
		d.fail(w, r, err)
		return
	}

	songs, err := d.catalog.Songs()
	if err != nil {
		d.fail(w, r, err)
		return
	}
	if len(songs) == 0 {
		http.NotFound(w, r)
		return
	}

	d.render(w, r, View{Shape: Fragment, Full: "album", Fragment: "album", Data: albumData{Album: *album, Songs: songs}})
}

// Login redirects to the provider consent page.
func (d *Dispatcher) Login(w http.ResponseWriter, r *http.Request) {
	d.logger.Debug("authorization flow", "state", services.FlowRedirected)
	http.Redirect(w, r, d.auth.AuthorizationURL(), http.StatusFound)
}

// LoginPage renders the static login page.
func (d *Dispatcher) LoginPage(w http.ResponseWriter, r *http.Request) {
	d.render(w, r, View{Shape: Full, Full: "login"})
}

// Callback exchanges the authorization code and always continues to /profile.
//
// A failed exchange clears any earlier token, so /profile sends the user back to /login.
// A successful one stores the token under a freshly issued session id.
func (d *Dispatcher) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if reason := q.Get("error"); reason != "" {
		d.logger.Warn("authorization denied", "reason", reason)
	}
	d.logger.Debug("authorization flow", "state", services.FlowCodeReceived)

	sess := d.session(r)
	token, err := d.auth.ExchangeCode(r.Context(), code)
	if err != nil {
		d.logger.Warn("authorization flow", "state", services.FlowExchangeFailed, "err", err)
		if sess.Token != nil {
			sess.SetToken(nil)
			if err := d.sessions.Save(w, r, sess); err != nil {
				d.logger.Error("failed to persist session", "err", err)
			}
		}
	} else {
		d.logger.Info("authorization flow", "state", services.FlowTokenExchanged)
		sess.SetToken(token)
		if err := d.sessions.Renew(w, r, sess); err != nil {
			d.logger.Error("failed to persist session", "err", err)
		}
	}

	http.Redirect(w, r, "/profile", http.StatusFound)
}

// Profile renders the signed-in user's profile. Without a token it redirects to /login
// and makes no remote call.
func (d *Dispatcher) Profile(w http.ResponseWriter, r *http.Request) {
	token := d.session(r).GetToken()
	if token == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	profile := d.api.FetchProfile(r.Context(), token)
	d.render(w, r, View{Shape: Full, Full: "profile", Data: profileData{Profile: profile}})
}

// Logout forgets the session and returns home.
func (d *Dispatcher) Logout(w http.ResponseWriter, r *http.Request) {
	if err := d.sessions.Destroy(w, r, d.session(r)); err != nil {
		d.logger.Error("failed to destroy session", "err", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Search renders track results for a POSTed search_term using a fresh client-credentials token.
//
// GET renders an empty result set. Only marked requests to /page/search receive the fragment.
func (d *Dispatcher) Search(w http.ResponseWriter, r *http.Request) {
	data := searchData{Results: []services.TrackResult{}}

	if r.Method == http.MethodPost {
		data.Searched = true
		data.Query = strings.TrimSpace(r.PostFormValue(SearchField))
		if data.Query != "" {
			data.Results = d.search(r, data.Query)
		}
	}

	shape := Full
	if Negotiate(r) == Fragment && r.URL.Path == "/page/search" {
		shape = Fragment
	}
	d.render(w, r, View{Shape: shape, Full: "search", Fragment: "search-partial", Data: data})
}

func (d *Dispatcher) search(r *http.Request, query string) []services.TrackResult {
	token, err := d.auth.ClientCredentials(r.Context())
	if err != nil {
		d.logger.Warn("client credentials exchange failed", "err", err)
		return []services.TrackResult{}
	}
	return d.api.SearchTracks(r.Context(), token, query, d.searchLimit)
}

// Page loads a named fragment. Unknown names fall back to the home fragment.
//
// /page/search has its own, more specific pattern and is served by [Dispatcher.Search].
func (d *Dispatcher) Page(w http.ResponseWriter, r *http.Request) {
	data, err := d.home()
	if err != nil {
		d.fail(w, r, err)
		return
	}
	d.render(w, r, View{Shape: Fragment, Full: "home", Fragment: "home", Data: data})
}

// Playlist renders a playlist fragment for marked requests.
//
// Unknown ids answer 404. A known playlist requested without the marker redirects to /.
func (d *Dispatcher) Playlist(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}

	playlist, err := d.catalog.Playlist(id)
	if errors.Is(err, shared.ErrNotFound) {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	} else if err != nil {
		d.fail(w, r, err)
		return
	}

	if Negotiate(r) != Fragment {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	d.render(w, r, View{Shape: Fragment, Fragment: "playlist", Data: playlistData{Playlist: *playlist}})
}

// session returns the request's session, loading it directly when no middleware attached one.
func (d *Dispatcher) session(r *http.Request) *session.Session {
	if s := session.FromContext(r.Context()); s != nil {
		return s
	}
	return d.sessions.Load(r)
}

func (d *Dispatcher) render(w http.ResponseWriter, r *http.Request, v View) {
	if err := d.renderer.Render(w, v); err != nil {
		d.logger.Error("render failed", "template", v.Template(), "path", r.URL.Path, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	d.logger.Error("request failed", "path", r.URL.Path, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
