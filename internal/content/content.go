// Package content holds the static marketing copy rendered by the public pages.
package content

// Service is one offering with its own landing page under /services/<slug>.
type Service struct {
	Slug         string
	Title        string
	Tagline      string
	Description  string
	Features     []string
	Deliverables []string
}

// Testimonial is a client quote shown in the home page carousel.
type Testimonial struct {
	Quote   string
	Author  string
	Role    string
	Company string
}

// Value is a company principle listed on the about page.
type Value struct {
	Title       string
	Description string
}

// Stat is a headline number on the home page.
type Stat struct {
	Value string
	Label string
}

var services = []Service{
	{
		Slug:         "web-development",
		Title:        "Web Development",
		Tagline:      "Fast, accessible sites and web apps",
		Description:  "From marketing sites to full web applications, we build on proven stacks and ship in small, reviewable increments.",
		Features:     []string{"Responsive front ends", "API and backend development", "Performance and accessibility audits", "CMS integration"},
		Deliverables: []string{"Production deployment", "Source code and documentation", "Handover session"},
	},
	{
		Slug:         "mobile-apps",
		Title:        "Mobile Apps",
		Tagline:      "Native feel on iOS and Android",
		Description:  "Cross-platform and native mobile apps designed around the few flows your users repeat every day.",
		Features:     []string{"Cross-platform builds", "Offline-friendly data sync", "Push notifications", "App store submission"},
		Deliverables: []string{"Store-ready builds", "Release checklist", "Crash and analytics setup"},
	},
	{
		Slug:         "ui-ux-design",
		Title:        "UI/UX Design",
		Tagline:      "Interfaces people understand on first use",
		Description:  "Research-led product design: flows, wireframes and a component library your developers can build from directly.",
		Features:     []string{"User research", "Wireframes and prototypes", "Design systems", "Usability testing"},
		Deliverables: []string{"Clickable prototype", "Component library", "Design tokens"},
	},
	{
		Slug:         "cloud-devops",
		Title:        "Cloud & DevOps",
		Tagline:      "Infrastructure that stays out of your way",
		Description:  "Containerised deployments, CI pipelines and monitoring so releases are routine instead of events.",
		Features:     []string{"CI/CD pipelines", "Container orchestration", "Monitoring and alerting", "Cost reviews"},
		Deliverables: []string{"Infrastructure as code", "Runbooks", "Dashboards"},
	},
	{
		Slug:         "digital-marketing",
		Title:        "Digital Marketing",
		Tagline:      "Traffic that turns into enquiries",
		Description:  "Search, content and campaign work measured against the enquiries it produces, not vanity numbers.",
		Features:     []string{"SEO", "Content strategy", "Paid campaigns", "Conversion tracking"},
		Deliverables: []string{"Monthly report", "Keyword plan", "Landing page variants"},
	},
}

var testimonials = []Testimonial{
	{
		Quote:   "They rebuilt our booking flow in six weeks and enquiries doubled the following month.",
		Author:  "Priya Nair",
		Role:    "Operations Lead",
		Company: "Harbour Clinics",
	},
	{
		Quote:   "Clear estimates, weekly demos and no surprises on the invoice.",
		Author:  "Tom Becker",
		Role:    "Founder",
		Company: "Fieldnote",
	},
	{
		Quote:   "Our app store rating went from 3.1 to 4.6 after the redesign.",
		Author:  "Maria Alves",
		Role:    "Product Manager",
		Company: "Routewise",
	},
}

var values = []Value{
	{Title: "Ship small, ship often", Description: "Every week ends with something you can click."},
	{Title: "Plain language", Description: "Estimates and reports you can forward without a glossary."},
	{Title: "Own the outcome", Description: "We measure work by what it changes for your customers."},
	{Title: "Leave it better", Description: "Documented code and a clean handover on every engagement."},
}

var stats = []Stat{
	{Value: "120+", Label: "Projects delivered"},
	{Value: "40+", Label: "Returning clients"},
	{Value: "8", Label: "Years in business"},
	{Value: "4.9", Label: "Average review"},
}

// Services returns the offerings in display order.
func Services() []Service { return services }

// ServiceBySlug looks up one offering.
func ServiceBySlug(slug string) (Service, bool) {
	for _, s := range services {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}

// ServiceCategories lists the service slugs accepted by the service-request form.
func ServiceCategories() []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.Slug
	}
	return out
}

func Testimonials() []Testimonial { return testimonials }

func Values() []Value { return values }

func Stats() []Stat { return stats }
