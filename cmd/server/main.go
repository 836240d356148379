package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/SADD1990/Taskmanager/internal/config"
	"github.com/SADD1990/Taskmanager/internal/serverapp"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load("taskmanager_config.yml")
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		log.WithError(err).Fatal("build server")
	}

	log.WithField("addr", cfg.ListenAddr).Info("listening")
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, handler))
}
