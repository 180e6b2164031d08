package tool

import (
	"context"

	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
)

const (
	FuncClientsByAdvisor = "get_client_details_by_fa_name"
	FuncAdvisorNames     = "get_all_fa_names"
)

type definition struct {
	spec    contractx.FunctionSpec
	handler handler
}

type clientsByAdvisorArgs struct {
	FAName string `json:"fa_name"`
}

// catalog must stay in sync with contract.Retriever: one entry per operation.
func catalog() []definition {
	return []definition{
		{
			spec: contractx.FunctionSpec{
				Name:        FuncClientsByAdvisor,
				Description: "Retrieves all client details associated with the given FA_NAME",
				Parameters: []contractx.ParameterSpec{
					{
						Name:        "fa_name",
						Type:        contractx.ParamString,
						Description: "The name of the Financial Advisor",
						Required:    true,
					},
				},
			},
			handler: executeClientsByAdvisor,
		},
		{
			spec: contractx.FunctionSpec{
				Name:        FuncAdvisorNames,
				Description: "Returns the list of all unique Financial Advisor names",
			},
			handler: executeAdvisorNames,
		},
	}
}

func executeClientsByAdvisor(ctx context.Context, r contractx.Retriever, args map[string]any) (any, error) {
	in, err := decodeArgs[clientsByAdvisorArgs](args)
	if err != nil {
		return nil, err
	}
	return r.ClientsByAdvisor(ctx, in.FAName)
}

func executeAdvisorNames(ctx context.Context, r contractx.Retriever, _ map[string]any) (any, error) {
	return r.AdvisorNames(ctx)
}
