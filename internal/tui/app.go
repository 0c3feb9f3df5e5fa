package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/bookstore/internal/domain"
	"github.com/mmcdole/bookstore/internal/tui/components"
	"github.com/mmcdole/bookstore/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Options tunes the model; zero values use defaults
type Options struct {
	Title    string // Shown in the header, usually the catalog query
	PageSize int
	Columns  int
	Logger   *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Books     domain.BookSource
	Favorites domain.FavoritesService
	Opener    domain.LinkOpener
	logger    *slog.Logger

	// UI Components
	Grid       components.BookGrid
	QueryModal components.InputModal
	Screens    *ScreenStack
	Nav        Navigator // Where selections are sent; defaults to Screens
	Spinner    spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	Title       string
	StatusMsg   string
	StatusIsErr bool
	Loading     bool

	// List state
	FavoritesOnly  bool
	HasReachedEnd  bool
	loadingInitial bool
	loadingNext    bool
	pageSize       int
	nextOffset     int // Where the next remote page starts

	// listGen is bumped whenever the grid switches source; results
	// carrying an older generation are dropped.
	listGen     int
	favCh       <-chan []*domain.Book
	cancelWatch func()
}

// NewModel creates a new application model
func NewModel(
	books domain.BookSource,
	favorites domain.FavoritesService,
	opener domain.LinkOpener,
	opts Options,
) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.PageSize = domain.ClampPageSize(opts.PageSize)
	if opts.Title == "" && books != nil {
		opts.Title = books.Query()
	}
	if opts.Title == "" {
		opts.Title = "Books"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	grid := components.NewBookGrid(opts.Columns)
	grid.SetFocused(true)
	grid.SetEmptyText("Loading books...")
	if favorites != nil {
		grid.SetFavoriteChecker(favorites.IsFavorite)
	}

	screens := NewScreenStack()

	return Model{
		State:          StateBrowsing,
		Books:          books,
		Favorites:      favorites,
		Opener:         opener,
		logger:         opts.Logger,
		Grid:           grid,
		QueryModal:     components.NewInputModal(),
		Screens:        screens,
		Nav:            screens,
		Spinner:        sp,
		Title:          opts.Title,
		Loading:        true,
		loadingInitial: true,
		pageSize:       opts.PageSize,
	}
}

// Init triggers the first page load and starts the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadInitialBooksCmd(m.Books, m.listGen),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, m.maybeLoadNext()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case BooksLoadedMsg:
		return m.handleBooksLoaded(msg)

	case BooksLoadFailedMsg:
		if msg.Gen != m.listGen {
			return m, nil
		}
		if msg.Initial {
			m.loadingInitial = false
			m.Grid.SetEmptyText("Could not load books (r to retry)")
		} else {
			m.loadingNext = false
		}
		m.Loading = false
		m.logger.Error("book page load failed", "error", msg.Err, "initial", msg.Initial)
		return m.setError(ErrMsg{Err: msg.Err, Context: "loading books"})

	case FavoritesUpdatedMsg:
		if msg.Gen != m.listGen || !m.FavoritesOnly {
			return m, nil
		}
		m.showFavorites(msg.Books)
		return m, WaitForFavoritesCmd(m.favCh, m.listGen)

	case FavoritesReloadedMsg:
		if msg.Gen != m.listGen || !m.FavoritesOnly {
			return m, nil
		}
		m.showFavorites(msg.Books)
		return m, nil

	case FavoritesClosedMsg:
		return m, nil

	case FavoriteToggledMsg:
		if detail := m.topDetail(); detail != nil && detail.Book() != nil && detail.Book().ID == msg.Book.ID {
			detail.SetFavorite(msg.Added)
		}
		text := fmt.Sprintf("Removed %q from favorites", msg.Book.DisplayTitle())
		if msg.Added {
			text = fmt.Sprintf("Added %q to favorites", msg.Book.DisplayTitle())
		}
		m.StatusMsg = text
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case BookDetailLoadedMsg:
		if detail := m.topDetail(); detail != nil && detail.Book() != nil && detail.Book().ID == msg.Book.ID {
			detail.SetBook(msg.Book)
		}
		return m, nil

	case LinkOpenedMsg:
		m.StatusMsg = "Opened " + msg.URL
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		return m.setError(msg)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Anything else (e.g. viewport internals) goes to the visible screen
	if top := m.Screens.Top(); top != nil {
		return m, top.Update(msg)
	}
	return m, nil
}

// handleBooksLoaded populates or extends the grid with a remote page
func (m Model) handleBooksLoaded(msg BooksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.listGen || m.FavoritesOnly {
		m.logger.Debug("dropping stale page", "gen", msg.Gen, "current", m.listGen)
		return m, nil
	}

	var items []*domain.Book
	if msg.Page != nil {
		items = msg.Page.Items
		m.nextOffset = msg.Page.NextOffset()
	}

	if msg.Initial {
		m.loadingInitial = false
		m.Grid.SetBooks(items)
		m.Grid.SetEmptyText("No books found")
	} else {
		m.loadingNext = false
		m.Grid.AppendBooks(items)
	}
	// End detection counts what the catalog sent, not what was mapped
	m.HasReachedEnd = msg.Page == nil || msg.Page.IsLastPage(m.pageSize)
	m.Loading = false

	m.logger.Debug("books loaded", "count", len(items), "initial", msg.Initial, "end", m.HasReachedEnd)

	// A short page may leave the end already on screen
	return m, m.maybeLoadNext()
}

// showFavorites replaces the grid contents with a favorites snapshot,
// keeping the selection and any filter
func (m *Model) showFavorites(books []*domain.Book) {
	cursor := m.Grid.Cursor()
	m.Grid.SetBooks(books)
	m.Grid.SetCursor(cursor)
	m.Loading = false
}

// maybeLoadNext requests the next page when the last book is fully visible.
// At most one next-page request is in flight.
func (m *Model) maybeLoadNext() tea.Cmd {
	if m.FavoritesOnly || m.HasReachedEnd || m.loadingInitial || m.loadingNext {
		return nil
	}
	if m.Grid.IsFiltering() || !m.Grid.AtEnd() {
		return nil
	}
	m.loadingNext = true
	m.Loading = true
	return LoadNextBooksCmd(m.Books, m.nextOffset, m.listGen)
}

// setFavoritesOnly switches the grid between remote pages and favorites.
// The grid is cleared on every switch so the two sources never mix.
func (m *Model) setFavoritesOnly(on bool) tea.Cmd {
	if on == m.FavoritesOnly {
		return nil
	}
	if on && m.Favorites == nil {
		return nil
	}

	m.FavoritesOnly = on
	m.listGen++
	m.loadingInitial = false
	m.loadingNext = false
	m.Grid.Clear()
	m.Grid.ClearFilter()

	if on {
		m.favCh, m.cancelWatch = m.Favorites.Watch()
		m.Grid.SetEmptyText("No favorites yet (f on a book to add it)")
		m.Loading = true
		m.logger.Info("showing favorites")
		return WaitForFavoritesCmd(m.favCh, m.listGen)
	}

	m.stopWatching()
	m.HasReachedEnd = false
	m.loadingInitial = true
	m.Loading = true
	m.Grid.SetEmptyText("Loading books...")
	m.logger.Info("showing catalog")
	return LoadInitialBooksCmd(m.Books, m.listGen)
}

// stopWatching cancels the favorites subscription, if any
func (m *Model) stopWatching() {
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	m.cancelWatch = nil
	m.favCh = nil
}

// refresh reloads the current source from scratch
func (m *Model) refresh() tea.Cmd {
	if m.FavoritesOnly {
		// The subscription stays armed; this only re-reads the store
		if m.Favorites == nil {
			return nil
		}
		return ReloadFavoritesCmd(m.Favorites, m.listGen)
	}
	m.listGen++
	m.loadingNext = false
	m.loadingInitial = true
	m.HasReachedEnd = false
	m.Loading = true
	m.StatusMsg = "Refreshing..."
	m.StatusIsErr = false
	return tea.Batch(RefreshBooksCmd(m.Books, m.listGen), ClearStatusCmd(2*time.Second))
}

// changeQuery switches the catalog to new search terms and shows its first page
func (m *Model) changeQuery(query string) tea.Cmd {
	if m.Books == nil || query == m.Books.Query() && !m.FavoritesOnly {
		return nil
	}
	m.Books.SetQuery(query)
	m.Title = query

	if m.FavoritesOnly {
		// Leaving favorites reloads the first page under the new query
		return m.setFavoritesOnly(false)
	}

	m.listGen++
	m.loadingNext = false
	m.loadingInitial = true
	m.HasReachedEnd = false
	m.Loading = true
	m.Grid.Clear()
	m.Grid.ClearFilter()
	m.Grid.SetEmptyText("Loading books...")
	return LoadInitialBooksCmd(m.Books, m.listGen)
}

// openDetail pushes a detail screen for the selected book
func (m *Model) openDetail() tea.Cmd {
	book := m.Grid.SelectedBook()
	if book == nil {
		return nil
	}

	favorite := m.Favorites != nil && m.Favorites.IsFavorite(book.ID)
	detail := components.NewBookDetail(book, favorite)
	detail.SetSize(m.Width, m.contentHeight())
	m.Nav.PushScreen(detail)

	m.logger.Debug("opened book", "id", book.ID)
	if m.Books == nil || m.FavoritesOnly {
		return nil
	}
	return LoadBookDetailCmd(m.Books, book.ID)
}

// topDetail returns the visible detail screen, if any
func (m Model) topDetail() *components.BookDetail {
	detail, _ := m.Screens.Top().(*components.BookDetail)
	return detail
}

// setError shows err in the status bar
func (m Model) setError(err ErrMsg) (tea.Model, tea.Cmd) {
	m.StatusMsg = err.Error()
	m.StatusIsErr = true
	return m, ClearStatusCmd(5 * time.Second)
}

// Close releases the favorites subscription
func (m Model) Close() {
	m.stopWatching()
}
