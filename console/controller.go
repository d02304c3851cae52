package console

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/octabyte/bm-queue-console/enums"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

const (
	LoadingLabel       = `<i class="fas fa-spinner fa-spin"></i> Enviando...`
	StatsErrorText     = "Erro"
	GenericPublishErr  = "Erro ao publicar mensagem"
	InvalidEmailNotice = "Informe um e-mail válido"
)

type Options struct {
	// ValidateEmail rejects malformed addresses before any request is sent.
	ValidateEmail bool
	// AfterFunc schedules toast hiding. Defaults to time.AfterFunc.
	AfterFunc AfterFunc
}

// PublishInput is what a form submission carries.
type PublishInput struct {
	Email     string
	Mensagem  string
	UsarCanal bool
	Canal     string
}

type Controller struct {
	doc      Document
	api      API
	opts     Options
	notifier *Notifier
	log      *zap.Logger

	mu    sync.Mutex
	state UIState
}

func New(doc Document, api API, opts Options) *Controller {
	return &Controller{
		doc:      doc,
		api:      api,
		opts:     opts,
		notifier: NewNotifier(doc, opts.AfterFunc),
		log:      logger.Named("console"),
		state:    DefaultUIState(),
	}
}

// Start runs the page-ready work.
func (c *Controller) Start(ctx context.Context) {
	c.LoadStats(ctx)
}

func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Notifier() *Notifier {
	return c.notifier
}

// LoadStats renders the queue stats, or "Erro" in every field when they
// cannot be read.
func (c *Controller) LoadStats(ctx context.Context) {
	stats, err := c.api.GetStats(ctx)
	if err != nil {
		c.log.Error("failed to load stats", zap.Error(err))
		c.setText(IDQueueName, StatsErrorText)
		c.setText(IDQueueStatus, StatsErrorText)
		c.setText(IDQueueRegion, StatsErrorText)
		return
	}

	c.setText(IDQueueName, stats.Nome)
	c.setText(IDQueueStatus, stats.Estado)
	c.setText(IDQueueRegion, stats.Regiao)
}

// Submit reads the submitted form's fields and publishes them.
func (c *Controller) Submit(ctx context.Context, ev SubmitEvent) {
	if ev.Target == nil {
		return
	}
	c.Publish(ctx, ev, c.ReadForm(ev.Target.ID()))
}

// ReadForm collects the field values of formID.
func (c *Controller) ReadForm(formID string) PublishInput {
	if formID == IDFormCanal {
		return PublishInput{
			Email:     c.value(IDEmailCanal),
			Mensagem:  c.value(IDMensagemCanal),
			UsarCanal: true,
			Canal:     c.value(IDCanal),
		}
	}
	return PublishInput{
		Email:    c.value(IDEmailNormal),
		Mensagem: c.value(IDMensagemNormal),
	}
}

// Publish sends in to the plain or channel endpoint. The outcome is reported
// through a toast; the submit button is disabled while the request runs.
func (c *Controller) Publish(ctx context.Context, ev SubmitEvent, in PublishInput) {
	emailID, mensagemID := IDEmailNormal, IDMensagemNormal
	endpoint := EndpointPublish
	if in.UsarCanal {
		emailID, mensagemID = IDEmailCanal, IDMensagemCanal
		endpoint = EndpointChannel
	}

	if c.opts.ValidateEmail {
		emailInput := c.doc.ByID(emailID)
		if !ValidEmail(in.Email) {
			if emailInput != nil {
				emailInput.ClassList().Add(ClassInvalid)
			}
			c.log.Warn("publish blocked", zap.Error(ErrInvalidEmail))
			c.notifier.Show(InvalidEmailNotice, enums.ToastWarning)
			return
		}
		if emailInput != nil {
			emailInput.ClassList().Remove(ClassInvalid)
		}
	}

	btn := submitButton(ev)
	if btn != nil {
		label := btn.HTML()
		btn.SetDisabled(true)
		btn.SetHTML(LoadingLabel)
		defer func() {
			btn.SetDisabled(false)
			btn.SetHTML(label)
		}()
	}

	payload := PublishPayload{Email: in.Email, Mensagem: in.Mensagem}
	if in.UsarCanal && in.Canal != "" {
		payload.Canal = in.Canal
	}

	msg, err := c.api.Publish(ctx, endpoint, payload)
	if err != nil {
		c.log.Error("failed to publish message", zap.String("endpoint", endpoint), zap.Error(err))
		c.notifier.Show(PublishErrorMessage(err), enums.ToastError)
		return
	}

	c.notifier.Show(msg, enums.ToastSuccess)
	c.setValue(emailID, "")
	c.setValue(mensagemID, "")
}

// PublishErrorMessage is the server's error text, or the generic message when
// the server gave none.
func PublishErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericPublishErr
}

// SelectTab activates tab. ev.Target is the clicked button; when nil the
// button is found by its data-tab attribute.
func (c *Controller) SelectTab(ev ClickEvent, tab enums.Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := ReduceTab(c.state, tab)
	if next.ActiveTab != tab {
		return
	}
	c.state = next

	buttons := c.doc.ByClass(ClassTabButton)
	for _, b := range buttons {
		b.ClassList().Remove(ClassActive)
	}
	for _, p := range c.doc.ByClass(ClassTabContent) {
		p.ClassList().Remove(ClassActive)
	}

	target := ev.Target
	if target == nil {
		for _, b := range buttons {
			if enums.Tab(b.Attr(AttrTab)) == next.ActiveTab {
				target = b
				break
			}
		}
	}
	if target != nil {
		target.ClassList().Add(ClassActive)
	}
	if panel := c.doc.ByID(panelFor(next.ActiveTab)); panel != nil {
		panel.ClassList().Add(ClassActive)
	}
}

func submitButton(ev SubmitEvent) Element {
	if ev.Submitter != nil {
		return ev.Submitter
	}
	if ev.Target != nil {
		return ev.Target.Query(SubmitButtonSelector)
	}
	return nil
}

func (c *Controller) setText(id, text string) {
	if el := c.doc.ByID(id); el != nil {
		el.SetText(text)
	}
}

func (c *Controller) setValue(id, value string) {
	if el := c.doc.ByID(id); el != nil {
		el.SetValue(value)
	}
}

func (c *Controller) value(id string) string {
	if el := c.doc.ByID(id); el != nil {
		return el.Value()
	}
	return ""
}
