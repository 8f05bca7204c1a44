package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/routemaster-go/routemaster/pkg/routemaster/client"
	"github.com/routemaster-go/routemaster/pkg/routemaster/model"
	mock_client "github.com/routemaster-go/routemaster/test/mock/routemaster/client"
	"github.com/stretchr/testify/suite"
)

type ClientMockTestSuite struct {
	suite.Suite
	ctx    context.Context
	ctrl   *gomock.Controller
	doer   *mock_client.MockHTTPDoer
	client *client.Client
}

func TestClientWithMockDoer(t *testing.T) {
	suite.Run(t, new(ClientMockTestSuite))
}

func (s *ClientMockTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.doer = mock_client.NewMockHTTPDoer(s.ctrl)

	clientID, err := model.ParseClientID("936da01f-9abd-4d9d-80c7-02af85c822a8")
	s.Require().NoError(err)
	s.client, err = client.NewClient(
		"https://routemaster.url",
		clientID,
		client.ClientWithHTTPDoer(s.doer),
		client.ClientWithUserAgent("routemaster-test"),
	)
	s.Require().NoError(err)
}

func (s *ClientMockTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func response(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func (s *ClientMockTestSuite) TestSubscribeRequest() {
	sub, err := model.NewSubscription("https://sub.test/cb", []string{"orders"})
	s.Require().NoError(err)

	s.doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		s.Equal(http.MethodPost, req.Method)
		s.Equal("https://routemaster.url/subscription", req.URL.String())
		user, password, ok := req.BasicAuth()
		s.True(ok)
		s.Equal("936da01f-9abd-4d9d-80c7-02af85c822a8", user)
		s.Empty(password)
		s.Equal("application/json", req.Header.Get("Content-Type"))
		s.Equal("application/json", req.Header.Get("Accept"))
		s.Equal("routemaster-test", req.Header.Get("User-Agent"))
		s.NotEmpty(req.Header.Get(client.RequestIDHeader))

		body, err := io.ReadAll(req.Body)
		s.Require().NoError(err)
		s.Equal(`{"callback":"https://sub.test/cb","topics":["orders"],"uuid":null,"timeout":null,"max":null}`, string(body))
		return response(http.StatusOK, ""), nil
	}).Times(1)

	s.NoError(s.client.Subscribe(s.ctx, sub))
}

func (s *ClientMockTestSuite) TestPushRequest() {
	event, err := model.NewEvent(model.EventTypeDeleted, "https://x.test/orders/1", "")
	s.Require().NoError(err)

	s.doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		s.Equal(http.MethodPost, req.Method)
		s.Equal("https://routemaster.url/topics/orders%2Furgent", req.URL.String())
		body, err := io.ReadAll(req.Body)
		s.Require().NoError(err)
		s.Equal(`{"type":"deleted","url":"https://x.test/orders/1","data":"","timestamp":null}`, string(body))
		return response(http.StatusAccepted, `{"ok":true}`), nil
	}).Times(1)

	s.NoError(s.client.Push(s.ctx, "orders/urgent", event))
}

func (s *ClientMockTestSuite) TestUnsubscribeHasNoBody() {
	s.doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		s.Equal(http.MethodDelete, req.Method)
		s.Equal("https://routemaster.url/subscriber/topics/orders", req.URL.String())
		s.Nil(req.Body)
		s.Empty(req.Header.Get("Content-Type"))
		return response(http.StatusNoContent, ""), nil
	}).Times(1)

	s.NoError(s.client.Unsubscribe(s.ctx, "orders"))
}

func (s *ClientMockTestSuite) TestTransportError() {
	cause := errors.New("connection reset by peer")
	s.doer.EXPECT().Do(gomock.Any()).Return(nil, cause).Times(1)

	err := s.client.UnsubscribeAll(s.ctx)
	s.ErrorIs(err, model.ErrTransport)
	s.ErrorIs(err, cause)
	s.NotErrorIs(err, model.ErrSerialization)
	s.NotErrorIs(err, model.ErrURLConstruction)
}

func (s *ClientMockTestSuite) TestStatusErrorBodyIsTruncated() {
	s.doer.EXPECT().Do(gomock.Any()).Return(response(http.StatusInternalServerError, strings.Repeat("x", 10000)), nil).Times(1)

	err := s.client.UnsubscribeAll(s.ctx)
	var statusErr *model.StatusError
	s.Require().True(errors.As(err, &statusErr))
	s.Equal(http.StatusInternalServerError, statusErr.StatusCode)
	s.Len(statusErr.Body, 4096)
}

func (s *ClientMockTestSuite) TestInvalidEventIsNotSent() {
	s.doer.EXPECT().Do(gomock.Any()).Times(0)

	err := s.client.Push(s.ctx, "orders", model.Event{Type: model.EventTypeCreated})
	s.ErrorIs(err, model.ErrSerialization)
}

func (s *ClientMockTestSuite) TestNotImplementedDoesNotSend() {
	s.doer.EXPECT().Do(gomock.Any()).Times(0)

	_, err := s.client.Topics(s.ctx)
	s.ErrorIs(err, model.ErrNotImplemented)
	s.ErrorIs(s.client.CreateToken(s.ctx), model.ErrNotImplemented)
	s.ErrorIs(s.client.DeleteToken(s.ctx), model.ErrNotImplemented)
}
