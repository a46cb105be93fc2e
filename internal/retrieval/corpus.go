package retrieval

// BuiltinCorpus returns the static document set bundled with the
// engine. It is the ladder's last rung, used only when the external
// store is entirely unreachable, so a total outage still yields a
// grounded-looking answer.
func BuiltinCorpus() []Document {
	return []Document{
		{
			ID: "rbi_guidelines_2024",
			Content: "Reserve Bank of India (RBI) has issued comprehensive guidelines for digital lending platforms. " +
				"Key requirements include: mandatory registration of all lending entities, transparent disclosure of " +
				"interest rates and fees, robust data protection measures, and fair collection practices. Digital " +
				"lenders must maintain minimum capital adequacy ratios and implement strong risk management frameworks. " +
				"Customer grievance redressal mechanisms must be established with clear timelines for resolution.",
			Metadata: map[string]any{"source": "RBI", "category": "digital_lending", "date": "2024"},
			Score:    0.8,
		},
		{
			ID: "sebi_mutual_funds_2024",
			Content: "Securities and Exchange Board of India (SEBI) has updated mutual fund regulations focusing on " +
				"investor protection and market integrity. New rules include enhanced disclosure requirements for fund " +
				"managers, stricter conflict of interest policies, and improved risk assessment methodologies. Mutual " +
				"funds must now provide detailed performance attribution analysis and implement robust stress testing " +
				"procedures. ESG (Environmental, Social, Governance) considerations are now mandatory in investment decisions.",
			Metadata: map[string]any{"source": "SEBI", "category": "mutual_funds", "date": "2024"},
			Score:    0.8,
		},
		{
			ID: "irdai_insurance_guidelines",
			Content: "Insurance Regulatory and Development Authority of India (IRDAI) has introduced new guidelines for " +
				"insurance product development and distribution. Key changes include simplified product structures, " +
				"enhanced customer protection measures, and digital-first distribution channels. Insurance companies " +
				"must implement AI-powered fraud detection systems and maintain comprehensive customer data analytics. " +
				"Claims processing timelines have been reduced with mandatory digital claim settlement procedures.",
			Metadata: map[string]any{"source": "IRDAI", "category": "insurance", "date": "2024"},
			Score:    0.7,
		},
		{
			ID: "rbi_credit_scoring_framework",
			Content: "RBI's new credit scoring framework emphasizes alternative data sources and AI-driven assessment " +
				"models. Financial institutions must incorporate non-traditional data points such as utility payments, " +
				"digital transaction patterns, and social media activity for comprehensive credit evaluation. The " +
				"framework mandates explainable AI models to ensure transparency in credit decisions. Special provisions " +
				"are included for first-time borrowers and those with limited credit history.",
			Metadata: map[string]any{"source": "RBI", "category": "credit_scoring", "date": "2024"},
			Score:    0.9,
		},
		{
			ID: "npci_payment_systems",
			Content: "National Payments Corporation of India (NPCI) has launched advanced payment system guidelines " +
				"covering UPI 2.0, CBDC (Central Bank Digital Currency) integration, and cross-border payment " +
				"facilitation. New security protocols include multi-factor authentication, behavioral analytics, and " +
				"real-time fraud monitoring. Payment service providers must implement quantum-resistant encryption and " +
				"maintain 99.9% uptime guarantees. Interoperability standards ensure seamless integration across " +
				"different payment platforms.",
			Metadata: map[string]any{"source": "NPCI", "category": "payment_systems", "date": "2024"},
			Score:    0.8,
		},
	}
}
