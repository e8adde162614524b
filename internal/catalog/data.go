package catalog

import "accredo/api/internal/compliance"

type chapterRow struct {
	Code    string
	Name    string
	Tag     compliance.ChapterTag
	Ordinal int
}

type elementRow struct {
	Chapter     string
	Standard    int
	Letter      string
	Category    compliance.Category
	Description string
}

type overrideRow struct {
	Priority compliance.Priority
	Status   compliance.Status
	Assignee string
}

var chapterRows = []chapterRow{
	{Code: "AAC", Name: "Access, Assessment and Continuity of Care", Tag: compliance.TagPatientCentered, Ordinal: 1},
	{Code: "COP", Name: "Care of Patients", Tag: compliance.TagPatientCentered, Ordinal: 2},
	{Code: "MOM", Name: "Management of Medication", Tag: compliance.TagPatientCentered, Ordinal: 3},
	{Code: "PRE", Name: "Patient Rights and Education", Tag: compliance.TagPatientCentered, Ordinal: 4},
	{Code: "HIC", Name: "Hospital Infection Control", Tag: compliance.TagPatientCentered, Ordinal: 5},
	{Code: "CQI", Name: "Continuous Quality Improvement", Tag: compliance.TagOrganizationCentered, Ordinal: 6},
	{Code: "ROM", Name: "Responsibilities of Management", Tag: compliance.TagOrganizationCentered, Ordinal: 7},
	{Code: "FMS", Name: "Facility Management and Safety", Tag: compliance.TagOrganizationCentered, Ordinal: 8},
	{Code: "HRM", Name: "Human Resource Management", Tag: compliance.TagOrganizationCentered, Ordinal: 9},
	{Code: "IMS", Name: "Information Management System", Tag: compliance.TagOrganizationCentered, Ordinal: 10},
}

var elementRows = []elementRow{
	{Chapter: "AAC", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "The hospital defines and displays the healthcare services that it provides, and the defined services are provided uniformly across the organisation."},
	{Chapter: "AAC", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "The defined healthcare services are displayed prominently in a language understood by the community, and staff are oriented to these services."},
	{Chapter: "AAC", Standard: 1, Letter: "c", Category: compliance.CategoryAchievement, Description: "Patients who do not match the organisation's defined services are informed of alternatives, and an appropriate referral mechanism with documented transfer summaries is in place."},
	{Chapter: "AAC", Standard: 2, Letter: "a", Category: compliance.CategoryCore, Description: "The hospital has a documented registration and admission process covering outpatients, inpatients and emergency patients, including management of patients during non-availability of beds."},
	{Chapter: "AAC", Standard: 2, Letter: "b", Category: compliance.CategoryCommitment, Description: "A unique identification number is generated at the end of registration and used across every patient record, requisition and report thereafter."},
	{Chapter: "AAC", Standard: 3, Letter: "a", Category: compliance.CategoryCommitment, Description: "An initial assessment of every patient is performed and documented within the timeframe defined by the organisation, and it results in a documented care plan."},
	{Chapter: "AAC", Standard: 3, Letter: "b", Category: compliance.CategoryExcellence, Description: "Reassessments are performed at intervals appropriate to the care setting, and the care plan is modified to reflect changes in the patient's condition with multidisciplinary input."},

	{Chapter: "COP", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "Uniform care is provided to patients in all settings of the organisation, guided by applicable laws, regulations and documented clinical practice guidelines."},
	{Chapter: "COP", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "Emergency services are guided by documented policies, procedures, and applicable laws, including handling of medico-legal cases and disaster management."},
	{Chapter: "COP", Standard: 2, Letter: "a", Category: compliance.CategoryCore, Description: "Cardiopulmonary resuscitation events are guided by a documented procedure; events are recorded, analysed, and corrective and preventive actions are taken."},
	{Chapter: "COP", Standard: 2, Letter: "b", Category: compliance.CategoryAchievement, Description: "A code-blue team with defined composition and roles is available around the clock, and mock drills are conducted at planned intervals with documented outcomes."},

	{Chapter: "MOM", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "Pharmacy services and medication usage are guided by a documented policy, a hospital formulary, and a multidisciplinary committee that reviews the formulary at defined intervals."},
	{Chapter: "MOM", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "Medications are stored under conditions recommended by the manufacturer, sound inventory control practices are followed, and look-alike sound-alike medications are stored separately."},
	{Chapter: "MOM", Standard: 2, Letter: "a", Category: compliance.CategoryCommitment, Description: "Medication orders are written legibly, dated, timed and signed; verbal orders follow a documented verification procedure and are countersigned within the defined timeframe."},
	{Chapter: "MOM", Standard: 2, Letter: "b", Category: compliance.CategoryExcellence, Description: "High-risk medication orders are independently double-checked before administration, and near-miss medication events are captured and analysed for systemic improvement."},

	{Chapter: "PRE", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "Patient and family rights and responsibilities are documented, displayed, and staff are aware of their responsibility to protect them."},
	{Chapter: "PRE", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "Patients and families are educated about their rights in a language and format they can understand, including the right to information, consent and refusal of treatment."},
	{Chapter: "PRE", Standard: 2, Letter: "a", Category: compliance.CategoryCommitment, Description: "Informed consent is obtained by the treating clinician before anaesthesia, blood transfusion and every documented procedure requiring consent, in a language the patient understands."},

	{Chapter: "HIC", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "The hospital has a documented infection prevention and control programme aimed at reducing the risk of healthcare associated infections, overseen by a designated committee."},
	{Chapter: "HIC", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "Hand hygiene facilities are accessible at the point of care in all patient-care areas, and compliance with hand hygiene guidelines is monitored and reported."},
	{Chapter: "HIC", Standard: 2, Letter: "a", Category: compliance.CategoryAchievement, Description: "Surveillance data on healthcare associated infections is collected, analysed against benchmarks, and fed back to clinical units with documented corrective actions."},

	{Chapter: "CQI", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "There is a structured, documented quality improvement and continuous monitoring programme covering clinical and managerial indicators, reviewed at defined intervals."},
	{Chapter: "CQI", Standard: 1, Letter: "b", Category: compliance.CategoryExcellence, Description: "The organisation uses external benchmarking and statistical tools to drive improvement, and verified improvements are sustained for at least a year."},

	{Chapter: "ROM", Standard: 1, Letter: "a", Category: compliance.CategoryCommitment, Description: "Those responsible for governance lay down the organisation's vision, mission and values, approve the strategic plan and operational budget, and monitor performance against them."},

	{Chapter: "FMS", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "The organisation's environment and facilities operate in a planned, safe manner conforming to applicable statutory requirements, with up-to-date licences and facility inspection rounds."},
	{Chapter: "FMS", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "There is a documented maintenance plan for medical equipment and utility systems, including breakdown response, preventive maintenance and calibration records."},

	{Chapter: "HRM", Standard: 1, Letter: "a", Category: compliance.CategoryCommitment, Description: "Human resource planning supports the organisation's current and future ability to meet the care needs of its patients, with documented job specifications for every category of staff."},
	{Chapter: "HRM", Standard: 1, Letter: "b", Category: compliance.CategoryAchievement, Description: "Every staff member undergoes induction and ongoing training appropriate to their role, and training effectiveness is evaluated with documented competency assessments."},

	{Chapter: "IMS", Standard: 1, Letter: "a", Category: compliance.CategoryCore, Description: "Documented policies and procedures exist to meet the information needs of care providers, management and external agencies, including confidentiality, integrity and security of records."},
	{Chapter: "IMS", Standard: 1, Letter: "b", Category: compliance.CategoryCommitment, Description: "The medical record contains an up-to-date and chronological account of patient care with every entry named, signed, dated and timed."},
}

// Static per-element overrides applied on top of the baseline table.
// An override always wins over the category-derived CORE default.
var overrideRows = map[string]overrideRow{
	"AAC.1.a": {Assignee: "Kashish", Status: compliance.StatusInProgress},
	"AAC.2.a": {Priority: compliance.PriorityPrevNC, Assignee: "Dr. Mehta"},
	"AAC.3.a": {Priority: compliance.PriorityP0, Assignee: "Kashish", Status: compliance.StatusInProgress},
	"COP.2.a": {Priority: compliance.PriorityPrevNC, Status: compliance.StatusBlocked, Assignee: "Sister Grace"},
	"MOM.1.b": {Priority: compliance.PriorityP1, Assignee: "Pharmacist Rao"},
	"MOM.2.b": {Priority: compliance.PriorityP2},
	"HIC.1.b": {Priority: compliance.PriorityP0, Status: compliance.StatusCompleted, Assignee: "ICN Priya"},
	"CQI.1.b": {Priority: compliance.PriorityP3},
	"FMS.1.a": {Status: compliance.StatusInProgress, Assignee: "Engineer Joseph"},
	"IMS.1.b": {Priority: compliance.PriorityP1, Assignee: "MRD Anita"},
}
