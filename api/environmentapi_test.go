package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"

	"github.com/atelierware/backoffice/api"
	"github.com/atelierware/backoffice/config"
)

func TestGetEnvironment(t *testing.T) {
	cfg := config.LoadDefaults()
	envApi := api.NewEnvApi(cfg)
	r := chi.NewRouter()
	envApi.ConfigureRouter(r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}

	got := &config.Config{}
	unmarshal(res, got, t)

	if got.AppName != cfg.AppName {
		t.Errorf("unexpected app name got=[%v] want=[%v]", got.AppName, cfg.AppName)
	}

	if got.Db.Pass != "******" {
		t.Errorf("db password should be scrubbed, got=[%v]", got.Db.Pass)
	}

	if got.RabbitMQ.Pass != "******" {
		t.Errorf("rabbitmq password should be scrubbed, got=[%v]", got.RabbitMQ.Pass)
	}
}
