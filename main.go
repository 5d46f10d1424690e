package main

import (
	"net/http"
	"os"
	"shopwork/account"
	"shopwork/attachment"
	"shopwork/bizerror"
	"shopwork/client/es"
	ossclient "shopwork/client/oss"
	"shopwork/domain/workorder"
	"shopwork/event"
	"shopwork/indices"
	"shopwork/infra/tracing"
	"shopwork/persistence"
	"shopwork/servehttp"
	"shopwork/session"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	err = ds.GormDB().AutoMigrate(
		&account.User{}, &account.ProjectMember{},
		&workorder.WorkOrder{}, &workorder.StatusTransitionRecord{},
		&attachment.WorkOrderAttachment{},
		&event.EventRecord{},
	).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v", err)
	}

	if closer := tracing.Bootstrap(); closer != nil {
		defer closer.Close()
	}
	if os.Getenv("ELASTICSEARCH_URL") != "" {
		es.Bootstrap()
		indices.Bootstrap()
	}
	if os.Getenv("OSS_ENDPOINT") != "" {
		ossclient.Bootstrap()
	}
	workorder.BootstrapListCache(30 * time.Second)

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "shopwork")
	})

	account.RegisterSessionsRestAPI(engine)
	account.RegisterOwnerBootstrapRestAPI(engine)
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())

	workorder.RegisterWorkOrdersRestAPI(engine, session.SimpleAuthFilter())
	workorder.RegisterStatusChangesRestAPI(engine, session.SimpleAuthFilter())
	attachment.RegisterAttachmentsRestAPI(engine, session.SimpleAuthFilter())
	if os.Getenv("ELASTICSEARCH_URL") != "" {
		indices.RegisterWorkOrderSearchRestAPI(engine, session.SimpleAuthFilter())
	}

	servehttp.StartHTTPServer(engine)
}
