package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/pepschool/obshub/apps/api/echo"
	"github.com/pepschool/obshub/core"
	"github.com/pepschool/obshub/core/access"
	"github.com/pepschool/obshub/core/classroom"
	"github.com/pepschool/obshub/core/observation"
	"github.com/pepschool/obshub/core/user"
	logsvc "github.com/pepschool/obshub/services/logger"
	dummydb "github.com/pepschool/obshub/storage/database/dummy"
)

var (
	conf *core.Config
	db   *dummydb.DB
	app  Server

	usrRepo user.Repository
	clsRepo classroom.Repository
	obsRepo observation.Repository
	logRepo access.LogRepository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	conf = core.NewTestConfig()
	conf.Debug = false // exercise production error rendering
	conf.AllowedEmailDomain = "@school.test"

	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))

	// set up DB & repos
	db = dummydb.Open()
	usrRepo = dummydb.NewUserRepository(db)
	clsRepo = dummydb.NewClassroomRepository(db)
	obsRepo = dummydb.NewObservationRepository(db)
	logRepo = dummydb.NewAccessLogRepository(db)

	// set up services
	usrSvc := user.NewService(usrRepo)
	clsSvc := classroom.NewService(clsRepo)
	obsSvc := observation.NewService(obsRepo, clsSvc)
	gate := access.NewGate(conf, usrRepo, logRepo, logger)

	// set up server
	app = NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Gate:           gate,
		AccessLogs:     logRepo,
		UserSvc:        usrSvc,
		ClassroomSvc:   clsSvc,
		ObservationSvc: obsSvc,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j2, j1), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
