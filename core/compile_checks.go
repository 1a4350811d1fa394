package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ PipelineProvider = (*Controller)(nil)
	_ Hook             = HookFunc(nil)
	_ IdentityParser   = UUIDIdentityParser{}
	_ ConfigProvider   = (*CfgxConfigProvider)(nil)
	_ OptionsResolver  = GoOptionsResolver{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
