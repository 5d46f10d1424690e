package tracing

import (
	"io"
	"shopwork/common"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Bootstrap installs a jaeger tracer as the opentracing global tracer.
// Configuration comes from the JAEGER_* environment (see jaeger-client-go).
func Bootstrap() io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warnf("jaeger config from env failed, tracing disabled: %v", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = common.GetServiceName()
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		logrus.Warnf("jaeger tracer init failed, tracing disabled: %v", err)
		return nil
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
