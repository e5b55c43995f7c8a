package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smarty/dcspkg/contracts"
)

func TestRemoteFixture(t *testing.T) {
	gunit.Run(new(RemoteFixture), t)
}

type RemoteFixture struct {
	*gunit.Fixture
	client *FakeHTTPClient
}

func (this *RemoteFixture) Setup() {
	this.client = NewFakeHTTPClient()
}

func (this *RemoteFixture) TestSuccessfulResponseReturned() {
	this.client.Respond("/pkgdata/foo", http.StatusOK, []byte("hi"))

	response, err := get(context.Background(), this.client, parseTestURL("http://server/pkgdata/foo"), nil)

	this.So(err, should.BeNil)
	body, _ := io.ReadAll(response.Body)
	this.So(string(body), should.Equal, "hi")
}

func (this *RemoteFixture) TestUnexpectedStatus() {
	this.client.Respond("/pkgdata/foo", http.StatusInternalServerError, nil)

	response, err := get(context.Background(), this.client, parseTestURL("http://server/pkgdata/foo"), nil)

	this.So(response, should.BeNil)
	this.So(errors.Is(err, contracts.ErrNetwork), should.BeTrue)
	this.So(err.Error(), should.ContainSubstring, "500")
}

func (this *RemoteFixture) TestTransportFailure() {
	this.client.err = errors.New("connection refused")

	_, err := get(context.Background(), this.client, parseTestURL("http://server/pkgdata/foo"), nil)

	this.So(errors.Is(err, contracts.ErrNetwork), should.BeTrue)
	this.So(err.Error(), should.ContainSubstring, "connection refused")
}

func (this *RemoteFixture) TestNoTimeoutMeansCancelOnly() {
	ctx, cancel := withTimeout(context.Background(), 0)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	this.So(hasDeadline, should.BeFalse)
}

func (this *RemoteFixture) TestTimeoutSetsDeadline() {
	ctx, cancel := withTimeout(context.Background(), 5)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	this.So(hasDeadline, should.BeTrue)
}

/////////////////////////////////////////////////////////////////////////

func parseTestURL(raw string) *url.URL {
	address, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return address
}

type fakeResponse struct {
	status int
	body   []byte
}

type FakeHTTPClient struct {
	responses map[string]fakeResponse
	requests  []string
	err       error
}

func NewFakeHTTPClient() *FakeHTTPClient {
	return &FakeHTTPClient{responses: make(map[string]fakeResponse)}
}

func (this *FakeHTTPClient) Respond(path string, status int, body []byte) {
	this.responses[path] = fakeResponse{status: status, body: body}
}

func (this *FakeHTTPClient) Do(request *http.Request) (*http.Response, error) {
	this.requests = append(this.requests, request.URL.String())
	if this.err != nil {
		return nil, this.err
	}
	response, found := this.responses[request.URL.Path]
	if !found {
		response = fakeResponse{status: http.StatusNotFound}
	}
	return &http.Response{
		StatusCode:    response.status,
		Status:        fmt.Sprintf("%d %s", response.status, http.StatusText(response.status)),
		Body:          io.NopCloser(bytes.NewReader(response.body)),
		ContentLength: int64(len(response.body)),
		Request:       request,
	}, nil
}
