package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/forgelabs/anvil/apps/api/echo"
	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/channel"
	"github.com/forgelabs/anvil/core/curriculum"
	"github.com/forgelabs/anvil/core/dashboard"
	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/problem"
	"github.com/forgelabs/anvil/core/resource"
	"github.com/forgelabs/anvil/core/scoring"
	"github.com/forgelabs/anvil/core/user"
	emailsvc "github.com/forgelabs/anvil/services/email"
	logsvc "github.com/forgelabs/anvil/services/logger"
	uploadsvc "github.com/forgelabs/anvil/services/uploads"
	inmemdb "github.com/forgelabs/anvil/storage/database/inmem"
)

var (
	conf     *core.Config
	db       *inmemdb.DB
	app      Server
	usrRepo  user.Repository
	usrSvc   user.Service
	uploader *uploadsvc.InmemUploader

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func TestMain(m *testing.M) {
	conf = core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	initValidators()
	core.ParseEmailTemplates(conf, logger)
	user.LoadCommonPasswords(conf, logger)

	// set up DB & repos
	db = inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc = user.NewServiceMock(usrRepo, mailSvc, conf)
	problemSvc := problem.NewService(inmemdb.NewProblemRepository(db))
	resourceSvc := resource.NewService(inmemdb.NewResourceRepository(db))
	channelSvc := channel.NewService(inmemdb.NewChannelRepository(db))
	notifSvc := notification.NewService(inmemdb.NewNotificationRepository(db), usrSvc, mailSvc)
	curriculumSvc := curriculum.NewService(inmemdb.NewCurriculumRepository(db))
	dashboardSvc := dashboard.NewService(usrSvc, problemSvc, resourceSvc, channelSvc, notifSvc)
	scoringSvc := scoring.NewService(inmemdb.NewScoringRepository(db))
	uploader = uploadsvc.NewInmemUploader("https://storage.test/anvil-uploads")

	// set up server
	app = NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		ProblemSvc:    problemSvc,
		ResourceSvc:   resourceSvc,
		ChannelSvc:    channelSvc,
		NotifSvc:      notifSvc,
		CurriculumSvc: curriculumSvc,
		DashboardSvc:  dashboardSvc,
		ScoringSvc:    scoringSvc,
		Uploader:      uploader,
	})

	os.Exit(m.Run())
}

func initValidators() {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	problem.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)
	channel.InitValidators(validate, translator)
	notification.InitValidators(validate, translator)
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
}

// createUser seeds a user directly in the repo; an optional createdAt pins
// the creation time for ordering-sensitive tests.
func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool, createdAt ...time.Time) user.User {
	t.Helper()

	now := time.Now().UTC()
	if len(createdAt) > 0 {
		now = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword(): %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
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
	extra    interface{}
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
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
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
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
