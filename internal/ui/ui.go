package ui

import (
	"context"
	"fmt"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"ytcorpus/internal/api"
	"ytcorpus/internal/models"
	"ytcorpus/internal/progress"
	"ytcorpus/internal/shared"
	"ytcorpus/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	DatasetListView
	SampleListView
	SampleEditView
	CreateDatasetView
	UserListView
	StatsView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	client  *api.Client
	review  *tasks.ReviewEngine
	ingest  *tasks.IngestEngine
	manager *progress.Manager
	config  *shared.Config
	logger  *log.Logger

	user          *models.User
	width, height int

	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int

	datasetList list.Model
	datasets    []models.Dataset
	datasetPage int
	selected    *models.Dataset

	sampleList  list.Model
	samples     []models.Sample
	samplePage  int
	sampleTotal int

	editArea textarea.Model
	editing  *models.Sample

	urlInput textinput.Model

	userList list.Model
	stats    *tasks.Statistics

	notice string
	err    error

	help help.Model
	keys keyMap
}

type sessionCheckedMsg struct {
	user *models.User
	err  error
}

type loginDoneMsg struct {
	user *models.User
	err  error
}

type datasetsFetchedMsg struct {
	page *api.DatasetPage
	err  error
}

type samplesFetchedMsg struct {
	page *api.SamplePage
	err  error
}

type reviewDoneMsg struct {
	action   string
	sampleID int
	err      error
}

type initializeDoneMsg struct {
	resp *api.MessageResponse
	err  error
}

type datasetDeletedMsg struct {
	err error
}

type transcribeStartedMsg struct {
	ticket *api.TranscribeTicket
	err    error
}

type usersFetchedMsg struct {
	page *api.UserPage
	err  error
}

type userDeletedMsg struct {
	err error
}

type statsFetchedMsg struct {
	stats *tasks.Statistics
	err   error
}

type progressMsg progress.Update

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, client *api.Client, review *tasks.ReviewEngine, ingest *tasks.IngestEngine, manager *progress.Manager, config *shared.Config, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	urlInput := textinput.New()
	urlInput.Placeholder = "https://youtube.com/watch?v=..."
	urlInput.CharLimit = 512

	edit := textarea.New()
	edit.Placeholder = "transcription text"

	return &Model{
		ctx:           ctx,
		view:          LoginView,
		client:        client,
		review:        review,
		ingest:        ingest,
		manager:       manager,
		config:        config,
		logger:        logger,
		usernameInput: username,
		passwordInput: password,
		urlInput:      urlInput,
		editArea:      edit,
		datasetPage:   1,
		samplePage:    1,
		help:          help.New(),
		keys:          newKeyMap(),
	}
}

// Init checks for a restored session and starts the push-update pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkSession(), m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.datasetList, &m.sampleList, &m.userList} {
			if l.Width() != 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		m.editArea.SetWidth(msg.Width - 4)
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case DatasetListView:
			return m.handleDatasetListKeys(msg)
		case SampleListView:
			return m.handleSampleListKeys(msg)
		case SampleEditView:
			return m.handleSampleEditKeys(msg)
		case CreateDatasetView:
			return m.handleCreateKeys(msg)
		case UserListView:
			return m.handleUserListKeys(msg)
		case StatsView:
			return m.handleStatsKeys(msg)
		}

	case sessionCheckedMsg:
		if msg.err != nil {
			// No usable session; stay on the login form.
			return m, nil
		}
		m.user = msg.user
		m.view = DatasetListView
		return m, m.fetchDatasets()

	case loginDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.user = msg.user
		m.view = DatasetListView
		return m, m.fetchDatasets()

	case datasetsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setDatasets(msg.page)
		m.reconcile()
		return m, nil

	case samplesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setSamples(msg.page)
		m.view = SampleListView
		return m, nil

	case reviewDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = fmt.Sprintf("Sample #%d %sd", msg.sampleID, msg.action)
		m.view = SampleListView
		return m, m.fetchSamples()

	case initializeDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = msg.resp.Message
		m.urlInput.SetValue("")
		m.view = DatasetListView
		return m, m.fetchDatasets()

	case datasetDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = "Dataset deleted"
		return m, m.fetchDatasets()

	case transcribeStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = msg.ticket.Message
		return m, m.fetchDatasets()

	case usersFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setUsers(msg.page)
		m.view = UserListView
		return m, nil

	case userDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.notice = "User deleted"
		return m, m.fetchUsers()

	case statsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.stats = msg.stats
		m.view = StatsView
		return m, nil

	case progressMsg:
		update := progress.Update(msg)
		if update.Refetch {
			return m, tea.Batch(m.fetchDatasets(), m.waitForUpdate())
		}
		m.applyProgress()
		return m, m.waitForUpdate()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case LoginView:
		body = m.renderLogin()
	case DatasetListView:
		body = m.renderDatasetList()
	case SampleListView:
		body = m.renderSampleList()
	case SampleEditView:
		body = m.renderSampleEdit()
	case CreateDatasetView:
		body = m.renderCreate()
	case UserListView:
		body = m.renderUserList()
	case StatsView:
		body = m.renderStats()
	}

	return body + m.renderFooter()
}

func (m *Model) renderFooter() string {
	if m.err != nil {
		return "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.notice != "" {
		return "\n" + styles.ok.Render(m.notice)
	}
	return ""
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.usernameInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.usernameInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		if m.usernameInput.Value() == "" || m.passwordInput.Value() == "" {
			m.err = fmt.Errorf("username and password are required")
			return m, nil
		}
		return m, m.doLogin(m.usernameInput.Value(), m.passwordInput.Value())
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleDatasetListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.datasetList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.datasetList.SelectedItem().(datasetItem); ok {
			dataset := item.dataset
			m.selected = &dataset
			m.samplePage = 1
			return m, m.fetchSamples()
		}
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchDatasets()
	case key.Matches(msg, m.keys.create):
		if !m.can(models.CapCreateDatasets) {
			return m, nil
		}
		m.view = CreateDatasetView
		m.urlInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.delete):
		if !m.can(models.CapDeleteDatasets) {
			return m, nil
		}
		if item, ok := m.datasetList.SelectedItem().(datasetItem); ok {
			return m, m.deleteDataset(item.dataset.ID)
		}
	case key.Matches(msg, m.keys.transcribe):
		if !m.can(models.CapStartTranscription) {
			return m, nil
		}
		if item, ok := m.datasetList.SelectedItem().(datasetItem); ok {
			return m, m.startTranscription(item.dataset.ID)
		}
	case key.Matches(msg, m.keys.users):
		if !m.can(models.CapManageUsers) {
			return m, nil
		}
		return m, m.fetchUsers()
	case key.Matches(msg, m.keys.stats):
		if !m.can(models.CapViewStatistics) {
			return m, nil
		}
		return m, m.fetchStats()
	}

	return m.updateLists(msg)
}

func (m *Model) handleSampleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sampleList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DatasetListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if !m.can(models.CapEditSamples) {
			return m, nil
		}
		if item, ok := m.sampleList.SelectedItem().(sampleItem); ok {
			sample := item.sample
			m.editing = &sample
			m.editArea.SetValue(sample.TextOrEmpty())
			m.editArea.Focus()
			m.view = SampleEditView
			return m, textarea.Blink
		}
	case key.Matches(msg, m.keys.approve):
		if !m.can(models.CapReviewSamples) {
			return m, nil
		}
		if item, ok := m.sampleList.SelectedItem().(sampleItem); ok {
			return m, m.approveSample(item.sample, item.sample.TextOrEmpty())
		}
	case key.Matches(msg, m.keys.reject):
		if !m.can(models.CapReviewSamples) {
			return m, nil
		}
		if item, ok := m.sampleList.SelectedItem().(sampleItem); ok {
			return m, m.rejectSample(item.sample)
		}
	case key.Matches(msg, m.keys.play):
		if item, ok := m.sampleList.SelectedItem().(sampleItem); ok {
			return m, m.playSample(item.sample)
		}
	}

	switch msg.String() {
	case "right", "l":
		if m.samplePage*m.pageSize() < m.sampleTotal {
			m.samplePage++
			return m, m.fetchSamples()
		}
		return m, nil
	case "left", "h":
		if m.samplePage > 1 {
			m.samplePage--
			return m, m.fetchSamples()
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleSampleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = nil
		m.view = SampleListView
		return m, nil
	case "ctrl+s":
		if m.editing != nil {
			return m, m.approveSample(*m.editing, m.editArea.Value())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editArea, cmd = m.editArea.Update(msg)
	return m, cmd
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = DatasetListView
		return m, nil
	case "enter":
		if m.urlInput.Value() == "" {
			m.err = fmt.Errorf("a video URL is required")
			return m, nil
		}
		return m, m.submitCreate(m.urlInput.Value())
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m *Model) handleUserListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DatasetListView
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if item, ok := m.userList.SelectedItem().(userItem); ok {
			if m.user != nil && item.user.Username == m.user.Username {
				m.err = fmt.Errorf("cannot delete the signed-in account")
				return m, nil
			}
			return m, m.deleteUser(item.user.ID)
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DatasetListView
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchStats()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case DatasetListView:
		m.datasetList, cmd = m.datasetList.Update(msg)
	case SampleListView:
		m.sampleList, cmd = m.sampleList.Update(msg)
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	}
	return m, cmd
}

func (m *Model) can(c models.Capability) bool {
	if m.user == nil {
		return false
	}
	if !m.user.Role.Can(c) {
		m.notice = "Not permitted for role " + string(m.user.Role)
		return false
	}
	return true
}

func (m *Model) pageSize() int {
	if m.config != nil && m.config.Review.PageSize > 0 {
		return m.config.Review.PageSize
	}
	return 20
}

func (m *Model) setDatasets(page *api.DatasetPage) {
	m.datasets = page.Items
	snapshot := m.manager.Snapshot()

	items := make([]list.Item, len(page.Items))
	for i, dataset := range page.Items {
		item := datasetItem{dataset: dataset}
		if ev, ok := snapshot[dataset.ID]; ok {
			event := ev
			item.event = &event
		}
		items[i] = item
	}

	if m.datasetList.Width() == 0 {
		m.datasetList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	} else {
		m.datasetList.SetItems(items)
	}
	m.datasetList.Title = fmt.Sprintf("Datasets (%d)", page.Total)
}

func (m *Model) setSamples(page *api.SamplePage) {
	m.samples = page.Samples
	m.sampleTotal = page.Total

	items := make([]list.Item, len(page.Samples))
	for i, sample := range page.Samples {
		items[i] = sampleItem{sample: sample}
	}

	if m.sampleList.Width() == 0 {
		m.sampleList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	} else {
		m.sampleList.SetItems(items)
	}

	name := ""
	if m.selected != nil {
		name = m.selected.Name
	}
	totalPages := (page.Total + m.pageSize() - 1) / m.pageSize()
	if totalPages < 1 {
		totalPages = 1
	}
	m.sampleList.Title = fmt.Sprintf("Samples in '%s' (page %d/%d)", name, m.samplePage, totalPages)
}

func (m *Model) setUsers(page *api.UserPage) {
	items := make([]list.Item, len(page.Users))
	for i, user := range page.Users {
		items[i] = userItem{user: user}
	}

	if m.userList.Width() == 0 {
		m.userList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	} else {
		m.userList.SetItems(items)
	}
	m.userList.Title = fmt.Sprintf("Users (%d)", page.Total)
}

// reconcile hands the currently rendered datasets to the push-channel
// manager.
func (m *Model) reconcile() {
	states := make([]progress.DatasetState, len(m.datasets))
	for i, dataset := range m.datasets {
		states[i] = progress.DatasetState{ID: dataset.ID, Status: dataset.Status}
	}
	m.manager.Reconcile(m.ctx, states)
}

// applyProgress refreshes dataset rows from the manager's event snapshot.
func (m *Model) applyProgress() {
	if m.datasetList.Width() == 0 {
		return
	}
	snapshot := m.manager.Snapshot()
	items := make([]list.Item, len(m.datasets))
	for i, dataset := range m.datasets {
		item := datasetItem{dataset: dataset}
		if ev, ok := snapshot[dataset.ID]; ok {
			event := ev
			item.event = &event
		}
		items[i] = item
	}
	m.datasetList.SetItems(items)
}

func (m *Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		if _, ok := m.client.SessionCookie(); !ok {
			return sessionCheckedMsg{err: shared.ErrNoSession}
		}
		user, err := m.client.Me(m.ctx)
		return sessionCheckedMsg{user: user, err: err}
	}
}

func (m *Model) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.Login(m.ctx, username, password); err != nil {
			return loginDoneMsg{err: err}
		}
		user, err := m.client.Me(m.ctx)
		return loginDoneMsg{user: user, err: err}
	}
}

func (m *Model) fetchDatasets() tea.Cmd {
	return func() tea.Msg {
		page, err := m.client.ListDatasets(m.ctx, api.DatasetFilters{Page: m.datasetPage, Limit: m.pageSize()})
		return datasetsFetchedMsg{page: page, err: err}
	}
}

func (m *Model) fetchSamples() tea.Cmd {
	datasetID := 0
	if m.selected != nil {
		datasetID = m.selected.ID
	}
	page := m.samplePage
	return func() tea.Msg {
		result, err := m.client.ListSamples(m.ctx, datasetID, api.SampleFilters{Page: page, Limit: m.pageSize()})
		return samplesFetchedMsg{page: result, err: err}
	}
}

func (m *Model) approveSample(sample models.Sample, text string) tea.Cmd {
	return func() tea.Msg {
		err := m.review.Approve(m.ctx, sample, text, nil)
		return reviewDoneMsg{action: "approve", sampleID: sample.ID, err: err}
	}
}

func (m *Model) rejectSample(sample models.Sample) tea.Cmd {
	return func() tea.Msg {
		err := m.review.Reject(m.ctx, sample, nil)
		return reviewDoneMsg{action: "reject", sampleID: sample.ID, err: err}
	}
}

func (m *Model) playSample(sample models.Sample) tea.Cmd {
	return func() tea.Msg {
		addr := m.config.Proxy.Addr()
		playURL := fmt.Sprintf("http://%s/audio?dataset_id=%d&filename=%s", addr, sample.DatasetID, url.QueryEscape(sample.Filename))
		if err := shared.OpenBrowser(playURL); err != nil {
			return reviewDoneMsg{action: "play", sampleID: sample.ID, err: err}
		}
		return nil
	}
}

func (m *Model) submitCreate(videoURL string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.ingest.Initialize(m.ctx, api.InitializeRequest{URL: videoURL}, nil)
		return initializeDoneMsg{resp: resp, err: err}
	}
}

func (m *Model) deleteDataset(id int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ingest.Delete(m.ctx, id)
		return datasetDeletedMsg{err: err}
	}
}

func (m *Model) startTranscription(id int) tea.Cmd {
	model := ""
	if m.config != nil {
		model = m.config.Review.Model
	}
	return func() tea.Msg {
		ticket, err := m.ingest.StartTranscription(m.ctx, id, model, nil)
		return transcribeStartedMsg{ticket: ticket, err: err}
	}
}

func (m *Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		page, err := m.client.ListUsers(m.ctx, 1, 100)
		return usersFetchedMsg{page: page, err: err}
	}
}

func (m *Model) deleteUser(id int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.DeleteUser(m.ctx, id)
		return userDeletedMsg{err: err}
	}
}

func (m *Model) fetchStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := tasks.CollectStatistics(m.ctx, m.client, 100, nil)
		return statsFetchedMsg{stats: stats, err: err}
	}
}

// waitForUpdate pumps one push-channel update into the bubbletea loop.
func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.manager.Updates()
		if !ok {
			return nil
		}
		return progressMsg(update)
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")
	form := fmt.Sprintf("%s\n%s", m.usernameInput.View(), m.passwordInput.View())
	helpView := styles.help.Render("tab: switch field • enter: sign in • ctrl+c: quit")
	return fmt.Sprintf("%s\n%s\n\n%s", title, form, helpView)
}

func (m *Model) renderDatasetList() string {
	if m.datasetList.Width() == 0 {
		return styles.help.Render("Loading datasets...")
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.create, m.keys.transcribe, m.keys.stats, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.datasetList.View(), helpView)
}

func (m *Model) renderSampleList() string {
	if m.sampleList.Width() == 0 {
		return styles.help.Render("Loading samples...")
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.approve, m.keys.reject, m.keys.play, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.sampleList.View(), helpView)
}

func (m *Model) renderSampleEdit() string {
	name := ""
	if m.editing != nil {
		name = m.editing.Filename
	}
	title := styles.title.Render(fmt.Sprintf("Editing '%s'", name))
	helpView := styles.help.Render("ctrl+s: save & approve • esc: discard")
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.editArea.View(), helpView)
}

func (m *Model) renderCreate() string {
	title := styles.title.Render("Ingest a new video")
	helpView := styles.help.Render("enter: submit • esc: back")
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.urlInput.View(), helpView)
}

func (m *Model) renderUserList() string {
	if m.userList.Width() == 0 {
		return styles.help.Render("Loading users...")
	}
	helpKeys := []key.Binding{m.keys.delete, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.userList.View(), helpView)
}

func (m *Model) renderStats() string {
	title := styles.title.Render("Directory statistics")
	if m.stats == nil {
		return title + "\n" + styles.help.Render("Loading...")
	}

	body := fmt.Sprintf(
		"Datasets: %d\nSamples: %d\nTotal audio: %s\nIn progress: %d\n",
		m.stats.TotalDatasets,
		m.stats.TotalSamples,
		shared.FormatDuration(m.stats.TotalDuration),
		m.stats.InProgress,
	)

	var histogram string
	for status, count := range m.stats.ByStatus {
		histogram += fmt.Sprintf("  %-22s %d\n", status.Label(), count)
	}

	helpView := styles.help.Render("r: refresh • esc: back • q: quit")
	return fmt.Sprintf("%s\n%s\n%s\n%s", title, body, histogram, helpView)
}
