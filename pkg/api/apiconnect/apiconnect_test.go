package apiconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/splitgroups/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoGroups struct {
	UnimplementedGroupServiceHandler
}

func (echoGroups) GetGroup(_ context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return connect.NewResponse(&api.GetGroupResponse{
		Group: &api.Group{Id: req.Msg.GroupId, Name: "Weekend Trip"},
	}), nil
}

func newGroupServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(NewGroupServiceHandler(echoGroups{}))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGroupServiceClient_RoundTrip(t *testing.T) {
	server := newGroupServer(t)
	client := NewGroupServiceClient(http.DefaultClient, server.URL)

	resp, err := client.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{GroupId: "g1"}))
	require.NoError(t, err)
	assert.Equal(t, "g1", resp.Msg.Group.Id)
	assert.Equal(t, "Weekend Trip", resp.Msg.Group.Name)
}

func TestGroupServiceClient_Unimplemented(t *testing.T) {
	server := newGroupServer(t)
	client := NewGroupServiceClient(http.DefaultClient, server.URL)

	_, err := client.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))
}

func TestGroupServiceHandler_PlainJSON(t *testing.T) {
	server := newGroupServer(t)

	resp, err := http.Post(server.URL+GroupServiceGetGroupProcedure, "application/json", strings.NewReader(`{"groupId":"g7"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestGroupServiceHandler_UnknownProcedure(t *testing.T) {
	server := newGroupServer(t)

	resp, err := http.Post(server.URL+"/splitgroups.v1.GroupService/Nope", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&api.Split{MemberId: "a", Amount: 40.17})
	require.NoError(t, err)
	assert.JSONEq(t, `{"memberId":"a","amount":40.17}`, string(data))

	var req api.ListGroupsRequest
	require.NoError(t, codec.Unmarshal(nil, &req))
	assert.Empty(t, req.MemberId)
}
