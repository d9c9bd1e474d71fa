package clockdomain

import (
	"sort"

	"github.com/sarchlab/dfcompile/graph"
	"github.com/sarchlab/dfcompile/ir"
)

// Run performs component F end to end over every clock domain in the
// graph: parameter discovery, specialization into Downsample/Upsample
// variants, and support-node creation (spec §4.5). Domains are visited
// outermost-first so a domain's discovered rate is settled before any
// descendant domain's RateRelativeToBase computation depends on it.
func Run(g *graph.Graph) error {
	domains := domainsOutermostFirst(g)

	for _, id := range domains {
		if err := DiscoverClockDomainParameters(g, id); err != nil {
			return err
		}
	}

	for _, id := range domains {
		if err := Specialize(g, id); err != nil {
			return err
		}
	}

	for _, id := range domains {
		if _, err := CreateSupportNodes(g, id); err != nil {
			return err
		}
	}

	return nil
}

// domainsOutermostFirst returns every clock-domain node (generic,
// Downsample, or Upsample) ordered by ascending ancestor-chain depth.
func domainsOutermostFirst(g *graph.Graph) []ir.NodeID {
	var domains []ir.NodeID
	for _, id := range g.AllNodes() {
		n, err := g.Node(id)
		if err != nil {
			continue
		}
		if _, ok := asClockDomain(n); ok {
			domains = append(domains, id)
		}
	}
	sort.Slice(domains, func(i, j int) bool {
		return len(g.Ancestors(domains[i])) < len(g.Ancestors(domains[j]))
	})
	return domains
}
