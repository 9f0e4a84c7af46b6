//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/builtin"
	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/infra"
	"github.com/urlpick/urlpick/internal/usecase"
)

var _ = Describe("Routing", func() {
	var (
		tmpDir   string
		logger   *zap.Logger
		store    *usecase.Store
		resolver *usecase.Resolver
		selector *usecase.Selector
	)

	newStore := func() *usecase.Store {
		persister := infra.NewJSONPersister(tmpDir, logger)
		s, err := usecase.NewStore(persister, builtin.Seeded(), logger)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "urlpick-integration-*")
		Expect(err).NotTo(HaveOccurred())

		logger = zap.NewNop()
		store = newStore()
		resolver = usecase.NewResolver(logger)
		selector = usecase.NewSelector(logger)
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("persistence round trip", func() {
		It("should survive a store restart", func() {
			rule, err := store.AddRule(domain.URLRule{
				Pattern:   "*github.com*",
				IsEnabled: true,
				Profile: domain.RuleProfile{
					BrowserName:           "Chrome",
					BrowserExecutablePath: "/usr/bin/chrome",
					BrowserType:           domain.BrowserChromium,
					ProfilePath:           "Work",
				},
			})
			Expect(err).NotTo(HaveOccurred())

			reopened := newStore()
			rules := reopened.Rules()
			Expect(rules).To(HaveLen(1))
			Expect(rules[0].ID).To(Equal(rule.ID))
			Expect(rules[0].Profile.BrowserExecutablePath).To(Equal("/usr/bin/chrome"))
		})

		It("should write the collections as JSON arrays", func() {
			_, err := store.AddRule(domain.URLRule{Pattern: "*x*", IsEnabled: true})
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(tmpDir, "rules.json"))
			Expect(err).NotTo(HaveOccurred())

			var raw []map[string]any
			Expect(json.Unmarshal(data, &raw)).To(Succeed())
			Expect(raw).To(HaveLen(1))
			Expect(raw[0]).To(HaveKey("pattern"))
			Expect(raw[0]).To(HaveKey("isEnabled"))
		})
	})

	Describe("built-in groups", func() {
		It("should seed them disabled on first run", func() {
			groups := store.Groups()
			Expect(groups).NotTo(BeEmpty())
			Expect(groups[0].ID).To(Equal(builtin.Microsoft365GroupID))
			Expect(groups[0].IsEnabled).To(BeFalse())
		})

		It("should re-seed a built-in that vanished from disk", func() {
			Expect(os.Remove(filepath.Join(tmpDir, "groups.json"))).To(Succeed())

			reopened := newStore()
			groups := reopened.Groups()
			Expect(groups).To(HaveLen(len(builtin.Seeded())))
			Expect(groups[0].IsEnabled).To(BeFalse())
		})

		It("should keep user state for built-ins already on disk", func() {
			status, err := store.SetGroupEnabled(builtin.Microsoft365GroupID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(domain.StatusOK))

			reopened := newStore()
			Expect(reopened.Groups()[0].IsEnabled).To(BeTrue())
		})
	})

	Describe("end to end resolution", func() {
		It("should prefer a picker group over an equally matching rule", func() {
			g, err := store.AddGroup(domain.URLGroup{
				Name:        "Google",
				URLPatterns: []string{"*.google.com/*"},
				Behavior:    domain.ShowProfilePicker,
				IsEnabled:   true,
			})
			Expect(err).NotTo(HaveOccurred())
			for _, name := range []string{"Work", "Personal"} {
				status, err := store.AddProfileToGroup(g.ID, domain.RuleProfile{
					BrowserName:           "Chrome",
					BrowserExecutablePath: "/usr/bin/chrome",
					BrowserType:           domain.BrowserChromium,
					ProfileName:           name,
					ProfilePath:           name,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(status).To(Equal(domain.StatusOK))
			}
			_, err = store.AddRule(domain.URLRule{
				Pattern:   "*.google.com/*",
				IsEnabled: true,
				Profile:   domain.RuleProfile{BrowserName: "Firefox"},
			})
			Expect(err).NotTo(HaveOccurred())

			m := resolver.Resolve("https://mail.google.com/x", store.Groups(), store.Rules())
			Expect(m).NotTo(BeNil())
			Expect(m.Source).To(Equal(domain.SourceGroup))
			Expect(m.Group.ID).To(Equal(g.ID))

			decision := selector.Select(m)
			Expect(decision.Kind).To(Equal(domain.DecisionPicker))
			Expect(decision.Candidates).To(HaveLen(2))
			Expect(decision.Candidates[0].ProfileName).To(Equal("Work"))
			Expect(decision.Candidates[1].ProfileName).To(Equal("Personal"))
		})

		It("should fall through to rules when no group matches", func() {
			rule, err := store.AddRule(domain.URLRule{
				Pattern:   "*github.com*",
				IsEnabled: true,
				Profile:   domain.RuleProfile{BrowserName: "Firefox"},
			})
			Expect(err).NotTo(HaveOccurred())

			m := resolver.Resolve("https://github.com/urlpick", store.Groups(), store.Rules())
			Expect(m).NotTo(BeNil())
			Expect(m.Source).To(Equal(domain.SourceRule))
			Expect(m.Rule.ID).To(Equal(rule.ID))
		})
	})

	Describe("encrypted launch history", func() {
		It("should record and list launches across reopen", func() {
			key, err := infra.EnsureKey(infra.NewFileKeyProvider(tmpDir))
			Expect(err).NotTo(HaveOccurred())

			history, err := infra.NewHistoryStore(tmpDir, key)
			Expect(err).NotTo(HaveOccurred())
			Expect(history.Record(domain.LaunchRecord{
				URL:         "https://mail.google.com/x",
				SourceKind:  domain.SourceGroup,
				SourceID:    "g1",
				BrowserPath: "/usr/bin/chrome",
				ProfilePath: "Work",
			})).To(Succeed())
			Expect(history.Close()).To(Succeed())

			reopened, err := infra.NewHistoryStore(tmpDir, key)
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			records, err := reopened.Recent(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].URL).To(Equal("https://mail.google.com/x"))
			Expect(records[0].ProfilePath).To(Equal("Work"))
		})
	})
})
