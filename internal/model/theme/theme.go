package theme

import "github.com/zhouzirui/site-studio/backend/internal/model/generation"

// Theme configures one storefront integration: the copy shown by the
// presentation layer and the workspace bindings used when a session starts.
type Theme struct {
	ID                 string              `json:"id" yaml:"id"`
	Title              string              `json:"title" yaml:"title"`
	Subtitle           string              `json:"subtitle" yaml:"subtitle"`
	Heading            string              `json:"heading" yaml:"heading"`
	Tagline            string              `json:"tagline" yaml:"tagline"`
	Placeholder        string              `json:"placeholder" yaml:"placeholder"`
	PreviewPlaceholder string              `json:"previewPlaceholder" yaml:"previewPlaceholder"`
	LoadingText        string              `json:"loadingText" yaml:"loadingText"`
	SuccessText        string              `json:"successText" yaml:"successText"`
	FailureText        string              `json:"failureText" yaml:"failureText"`
	Suggestions        []string            `json:"suggestions,omitempty" yaml:"suggestions"`
	DomainHint         string              `json:"domainHint,omitempty" yaml:"domainHint"` // 提示词精炼使用的领域描述
	ProjectName        string              `json:"-" yaml:"projectName"`                   // 新建工作区名称
	Env                []generation.EnvVar `json:"-" yaml:"env"`                           // 工作区环境变量
	TemplateURL        string              `json:"-" yaml:"templateUrl"`                   // 模板压缩包地址
}

// DefaultEnv 工作区默认绑定的环境变量，主题未配置 Env 时使用
var DefaultEnv = []generation.EnvVar{
	{Key: "NEXT_PUBLIC_SHOPIFY_STORE_DOMAIN", Value: "fakestore-ai.myshopify.com"},
}

// Seed provides the built-in themes: a generic restaurant site builder and a
// Shopify storefront builder.
func Seed() []Theme {
	return []Theme{
		{
			ID:                 "restaurant",
			Title:              "Website Creator",
			Subtitle:           "Build your restaurant's online presence",
			Heading:            "What restaurant experience can we build together?",
			Tagline:            "Create stunning websites and online ordering experiences that drive revenue for your restaurant",
			Placeholder:        "Describe your restaurant website idea...",
			PreviewPlaceholder: "Your restaurant website preview will appear here...",
			LoadingText:        "Creating your restaurant website...",
			SuccessText:        "Generated new restaurant website preview. Check the preview panel!",
			FailureText:        "Sorry, there was an error creating your restaurant website. Please try again.",
			Suggestions: []string{
				"Create a modern pizza restaurant website with online ordering",
				"Build a coffee shop landing page with menu showcase",
				"Design a fine dining restaurant site with reservation system",
			},
			DomainHint:  "restaurant websites with menus, ordering and reservations",
			ProjectName: "Restaurant Site",
		},
		{
			ID:                 "shopify",
			Title:              "Storefront Creator",
			Subtitle:           "Launch a Shopify storefront in minutes",
			Heading:            "What store can we build together?",
			Tagline:            "Generate a commerce storefront wired to your Shopify catalog",
			Placeholder:        "Describe your storefront idea...",
			PreviewPlaceholder: "Your storefront preview will appear here...",
			LoadingText:        "Creating your storefront...",
			SuccessText:        "Generated new storefront preview. Check the preview panel!",
			FailureText:        "Sorry, there was an error creating your storefront. Please try again.",
			Suggestions: []string{
				"Create a minimalist apparel store with a featured collection",
				"Build a skincare shop with product bundles",
				"Design a coffee bean store with subscriptions",
			},
			DomainHint:  "Shopify commerce storefronts backed by a product catalog",
			ProjectName: "My Project",
			Env: []generation.EnvVar{
				{Key: "NEXT_PUBLIC_SHOPIFY_STORE_DOMAIN", Value: "fakestore-ai.myshopify.com"},
			},
			TemplateURL: "https://oml7wvjso7dfbgel.public.blob.vercel-storage.com/v0commercetemplateshopify.zip",
		},
	}
}
