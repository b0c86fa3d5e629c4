package domain

import "fmt"

// LifecyclePhase is a build lifecycle phase named by its enum constant
// (e.g. PROCESS_RESOURCES). The zero value is not valid; use PhaseNone.
type LifecyclePhase string

const (
	PhaseNone                  LifecyclePhase = "NONE"
	PhaseValidate              LifecyclePhase = "VALIDATE"
	PhaseInitialize            LifecyclePhase = "INITIALIZE"
	PhaseGenerateSources       LifecyclePhase = "GENERATE_SOURCES"
	PhaseProcessSources        LifecyclePhase = "PROCESS_SOURCES"
	PhaseGenerateResources     LifecyclePhase = "GENERATE_RESOURCES"
	PhaseProcessResources      LifecyclePhase = "PROCESS_RESOURCES"
	PhaseCompile               LifecyclePhase = "COMPILE"
	PhaseProcessClasses        LifecyclePhase = "PROCESS_CLASSES"
	PhaseGenerateTestSources   LifecyclePhase = "GENERATE_TEST_SOURCES"
	PhaseProcessTestSources    LifecyclePhase = "PROCESS_TEST_SOURCES"
	PhaseGenerateTestResources LifecyclePhase = "GENERATE_TEST_RESOURCES"
	PhaseProcessTestResources  LifecyclePhase = "PROCESS_TEST_RESOURCES"
	PhaseTestCompile           LifecyclePhase = "TEST_COMPILE"
	PhaseProcessTestClasses    LifecyclePhase = "PROCESS_TEST_CLASSES"
	PhaseTest                  LifecyclePhase = "TEST"
	PhasePreparePackage        LifecyclePhase = "PREPARE_PACKAGE"
	PhasePackage               LifecyclePhase = "PACKAGE"
	PhasePreIntegrationTest    LifecyclePhase = "PRE_INTEGRATION_TEST"
	PhaseIntegrationTest       LifecyclePhase = "INTEGRATION_TEST"
	PhasePostIntegrationTest   LifecyclePhase = "POST_INTEGRATION_TEST"
	PhaseVerify                LifecyclePhase = "VERIFY"
	PhaseInstall               LifecyclePhase = "INSTALL"
	PhaseDeploy                LifecyclePhase = "DEPLOY"
	PhasePreClean              LifecyclePhase = "PRE_CLEAN"
	PhaseClean                 LifecyclePhase = "CLEAN"
	PhasePostClean             LifecyclePhase = "POST_CLEAN"
	PhasePreSite               LifecyclePhase = "PRE_SITE"
	PhaseSite                  LifecyclePhase = "SITE"
	PhasePostSite              LifecyclePhase = "POST_SITE"
	PhaseSiteDeploy            LifecyclePhase = "SITE_DEPLOY"
)

var lifecyclePhaseIDs = map[LifecyclePhase]string{
	PhaseNone:                  "",
	PhaseValidate:              "validate",
	PhaseInitialize:            "initialize",
	PhaseGenerateSources:       "generate-sources",
	PhaseProcessSources:        "process-sources",
	PhaseGenerateResources:     "generate-resources",
	PhaseProcessResources:      "process-resources",
	PhaseCompile:               "compile",
	PhaseProcessClasses:        "process-classes",
	PhaseGenerateTestSources:   "generate-test-sources",
	PhaseProcessTestSources:    "process-test-sources",
	PhaseGenerateTestResources: "generate-test-resources",
	PhaseProcessTestResources:  "process-test-resources",
	PhaseTestCompile:           "test-compile",
	PhaseProcessTestClasses:    "process-test-classes",
	PhaseTest:                  "test",
	PhasePreparePackage:        "prepare-package",
	PhasePackage:               "package",
	PhasePreIntegrationTest:    "pre-integration-test",
	PhaseIntegrationTest:       "integration-test",
	PhasePostIntegrationTest:   "post-integration-test",
	PhaseVerify:                "verify",
	PhaseInstall:               "install",
	PhaseDeploy:                "deploy",
	PhasePreClean:              "pre-clean",
	PhaseClean:                 "clean",
	PhasePostClean:             "post-clean",
	PhasePreSite:               "pre-site",
	PhaseSite:                  "site",
	PhasePostSite:              "post-site",
	PhaseSiteDeploy:            "site-deploy",
}

// ParseLifecyclePhase resolves an enum constant name such as "PACKAGE".
func ParseLifecyclePhase(name string) (LifecyclePhase, error) {
	p := LifecyclePhase(name)
	if _, ok := lifecyclePhaseIDs[p]; !ok {
		return PhaseNone, fmt.Errorf("unknown lifecycle phase %q", name)
	}
	return p, nil
}

// ID returns the phase id used in descriptors; empty for PhaseNone.
func (p LifecyclePhase) ID() string {
	return lifecyclePhaseIDs[p]
}

// IsNone reports whether p denotes no phase binding.
func (p LifecyclePhase) IsNone() bool {
	return p == "" || p == PhaseNone
}

// LifecyclePhases returns every phase constant, PhaseNone included.
func LifecyclePhases() []LifecyclePhase {
	out := make([]LifecyclePhase, 0, len(lifecyclePhaseIDs))
	for p := range lifecyclePhaseIDs {
		out = append(out, p)
	}
	return out
}

// ResolutionScope is the breadth of dependencies a goal needs resolved.
type ResolutionScope string

const (
	ScopeNone               ResolutionScope = "NONE"
	ScopeCompile            ResolutionScope = "COMPILE"
	ScopeCompilePlusRuntime ResolutionScope = "COMPILE_PLUS_RUNTIME"
	ScopeRuntime            ResolutionScope = "RUNTIME"
	ScopeRuntimePlusSystem  ResolutionScope = "RUNTIME_PLUS_SYSTEM"
	ScopeTest               ResolutionScope = "TEST"
)

var resolutionScopeIDs = map[ResolutionScope]string{
	ScopeNone:               "",
	ScopeCompile:            "compile",
	ScopeCompilePlusRuntime: "compile+runtime",
	ScopeRuntime:            "runtime",
	ScopeRuntimePlusSystem:  "runtime+system",
	ScopeTest:               "test",
}

// ParseResolutionScope resolves an enum constant name such as "COMPILE_PLUS_RUNTIME".
func ParseResolutionScope(name string) (ResolutionScope, error) {
	s := ResolutionScope(name)
	if _, ok := resolutionScopeIDs[s]; !ok {
		return ScopeNone, fmt.Errorf("unknown resolution scope %q", name)
	}
	return s, nil
}

// ID returns the scope id; empty for ScopeNone.
func (s ResolutionScope) ID() string {
	return resolutionScopeIDs[s]
}

// InstantiationStrategy controls how the container creates goal instances.
type InstantiationStrategy string

const (
	InstantiationPerLookup InstantiationStrategy = "PER_LOOKUP"
	InstantiationSingleton InstantiationStrategy = "SINGLETON"
	InstantiationKeepAlive InstantiationStrategy = "KEEP_ALIVE"
	InstantiationPoolable  InstantiationStrategy = "POOLABLE"
)

var instantiationStrategyIDs = map[InstantiationStrategy]string{
	InstantiationPerLookup: "per-lookup",
	InstantiationSingleton: "singleton",
	InstantiationKeepAlive: "keep-alive",
	InstantiationPoolable:  "poolable",
}

// ParseInstantiationStrategy resolves an enum constant name such as "SINGLETON".
func ParseInstantiationStrategy(name string) (InstantiationStrategy, error) {
	s := InstantiationStrategy(name)
	if _, ok := instantiationStrategyIDs[s]; !ok {
		return InstantiationPerLookup, fmt.Errorf("unknown instantiation strategy %q", name)
	}
	return s, nil
}

// ID returns the strategy id written to descriptors.
func (s InstantiationStrategy) ID() string {
	return instantiationStrategyIDs[s]
}

// Execution strategies.
const (
	ExecutionOncePerSession = "once-per-session"
	ExecutionAlways         = "always"
)
